package document

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// fromValue builds a document from a generic decoded value, as produced by
// encoding/json (with UseNumber) or yaml.v3.
func fromValue(v any) (*Document, error) {
	var (
		nodes     any
		positions any
		view      any
	)
	if top, ok := v.([]any); ok {
		nodes = top
	} else if top, ok := stringMap(v); ok {
		nodes = top["nodes"]
		positions = top["customPositions"]
		view = top["viewTransform"]
	} else {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document must be an object or a node array")
	}

	d := &Document{}
	switch recs := nodes.(type) {
	case nil:
	case []any:
		d.Nodes = make([]mindmap.Node, 0, len(recs))
		for _, rec := range recs {
			n, ok := nodeFromRecord(rec)
			if !ok {
				d.Skipped++
				continue
			}
			d.Nodes = append(d.Nodes, n)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument, "nodes must be an array")
	}

	d.CustomPositions = overridesFromValue(positions)
	d.ViewTransform = viewFromValue(view)
	d.normalize()
	return d, nil
}

// nodeFromRecord converts one node record, substituting defaults for
// missing or mistyped fields. It reports false only when no usable ID is
// present.
func nodeFromRecord(rec any) (mindmap.Node, bool) {
	m, ok := stringMap(rec)
	if !ok {
		return mindmap.Node{}, false
	}
	id, ok := scalarString(m["id"])
	if !ok || id == "" {
		return mindmap.Node{}, false
	}
	label, _ := scalarString(m["label"])
	parent, _ := scalarString(m["parentId"])
	return mindmap.Node{ID: id, Label: label, ParentID: parent}, true
}

// stringMap returns v as a map keyed by strings. yaml.v3 decodes mappings
// with any non-string key as map[any]any; scalar keys are converted with
// [scalarString] and other keys are dropped.
func stringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if key, ok := scalarString(k); ok {
				out[key] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// scalarString returns strings verbatim and numbers in their shortest
// decimal form. Other values report false.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}

// number converts a decoded numeric value to float64.
func number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func overridesFromValue(v any) resolve.Overrides {
	out := resolve.Overrides{}
	m, ok := stringMap(v)
	if !ok {
		return out
	}
	for id, raw := range m {
		p, ok := stringMap(raw)
		if !ok {
			continue
		}
		x, okX := number(p["x"])
		y, okY := number(p["y"])
		if okX && okY {
			out[id] = resolve.Point{X: x, Y: y}
		}
	}
	return out
}

func viewFromValue(v any) *View {
	m, ok := stringMap(v)
	if !ok {
		return nil
	}
	view := DefaultView
	if x, ok := number(m["x"]); ok {
		view.X = x
	}
	if y, ok := number(m["y"]); ok {
		view.Y = y
	}
	if s, ok := number(m["scale"]); ok && s > 0 {
		view.Scale = s
	}
	return &view
}
