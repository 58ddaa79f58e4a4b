package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindtower/pkg/buildinfo"
	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/render"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// DefaultMaxBodyBytes limits the size of request documents.
const DefaultMaxBodyBytes = 4 << 20

// Options configures the service handler.
type Options struct {
	// LevelSpacing is the radial distance between depths. Zero selects
	// layout.DefaultLevelSpacing.
	LevelSpacing float64

	// IDPrefix is used when decoded documents need generated IDs.
	IDPrefix string

	// SVG holds options for the native SVG renderer.
	SVG []render.SVGOption

	// MaxBodyBytes limits request bodies. Zero selects DefaultMaxBodyBytes.
	MaxBodyBytes int64

	Logger *log.Logger
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.LevelSpacing <= 0 {
		o.LevelSpacing = layout.DefaultLevelSpacing
	}
	if o.IDPrefix == "" {
		o.IDPrefix = mindmap.DefaultPrefix
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutResponse is the body returned by POST /v1/layout.
type LayoutResponse struct {
	Positions resolve.Map `json:"positions"`
	Bounds    [4]float64  `json:"bounds"`
}

// CheckResponse is the body returned by POST /v1/check.
type CheckResponse struct {
	OK      bool            `json:"ok"`
	Nodes   int             `json:"nodes"`
	Skipped int             `json:"skipped"`
	Issues  []mindmap.Issue `json:"issues"`
}

type server struct {
	opts   Options
	logger *log.Logger
}

// NewHandler returns the HTTP handler of the layout service. The service is
// stateless: every request carries the full document.
func NewHandler(opts Options) http.Handler {
	opts.SetDefaults()
	s := &server{opts: opts, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/check", s.handleCheck)
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	placed := s.place(doc)
	minX, minY, maxX, maxY := placed.Bounds()
	writeJSON(w, http.StatusOK, LayoutResponse{
		Positions: placed,
		Bounds:    [4]float64{minX, minY, maxX, maxY},
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := render.FormatSVG
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			s.writeError(w, err)
			return
		}
		format = f
	}

	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	tree := doc.Tree(s.opts.IDPrefix)
	placed := s.place(doc)

	switch format {
	case render.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(render.SVG(tree, placed, s.opts.SVG...))
	case render.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		io.WriteString(w, render.ToDOT(tree, placed))
	default:
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "format %q is not served", format))
	}
}

func (s *server) handleCheck(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	issues := mindmap.CheckNodes(doc.Nodes)
	if issues == nil {
		issues = []mindmap.Issue{}
	}
	writeJSON(w, http.StatusOK, CheckResponse{
		OK:      len(issues) == 0 && doc.Skipped == 0,
		Nodes:   len(doc.Nodes),
		Skipped: doc.Skipped,
		Issues:  issues,
	})
}

func (s *server) readDocument(w http.ResponseWriter, r *http.Request) (*document.Document, error) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	doc, err := document.Decode(body, document.FormatJSON)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, err
	}
	return doc, nil
}

func (s *server) place(doc *document.Document) resolve.Map {
	tree := doc.Tree(s.opts.IDPrefix)
	nodes := tree.LayoutNodes()
	positions := layout.Compute(nodes, layout.WithLevelSpacing(s.opts.LevelSpacing))
	return resolve.Resolve(nodes, positions, doc.Overrides())
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDocument:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}
