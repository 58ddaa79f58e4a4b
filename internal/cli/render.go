package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/render"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

const (
	engineNative   = "native"   // built-in SVG writer
	engineGraphviz = "graphviz" // neato with pinned positions
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string        // output file path; "-" writes to stdout
	format render.Format // svg, dot or png
	engine string        // native or graphviz
	title  string        // SVG title element
}

// renderCommand creates the render command for generating images.
func (c *CLI) renderCommand() *cobra.Command {
	var formatStr string
	opts := renderOpts{engine: engineNative}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a mind map to SVG, DOT or PNG",
		Long: `Render a mind map to SVG, DOT or PNG.

SVG is written by the built-in renderer unless --engine graphviz is given.
PNG always goes through Graphviz; nodes keep their resolved positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveRenderFormat(formatStr, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			if err := validateEngine(opts.engine, opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&formatStr, "format", "f", "", "output format: svg (default), dot, png")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "renderer: native (default), graphviz")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG title (default: the main idea)")

	return cmd
}

// runRender loads the document, renders it and writes the result.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	ed, err := c.openEditor(input)
	if err != nil {
		return err
	}
	data, err := c.renderPlaced(ctx, ed.Tree(), ed.Positions(), opts)
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + "." + string(opts.format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Rendered %s", strings.ToUpper(string(opts.format)))
	printFile(out)
	return nil
}

// resolveRenderFormat picks the format from the flag, then from the output
// file extension, then defaults to SVG.
func resolveRenderFormat(flag, output string) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(flag)
	}
	if ext := filepath.Ext(output); ext != "" && output != "-" {
		return render.ParseFormat(ext)
	}
	return render.FormatSVG, nil
}

// validateEngine checks that the engine exists and can produce format.
func validateEngine(engine string, format render.Format) error {
	switch engine {
	case engineNative:
		if format == render.FormatPNG {
			return errors.New(errors.ErrCodeUnsupported, "png output needs --engine graphviz")
		}
	case engineGraphviz:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %q (use native or graphviz)", engine)
	}
	return nil
}

// renderPlaced produces the bytes of one rendering. It is shared by render
// and watch.
func (c *CLI) renderPlaced(ctx context.Context, tree mindmap.Tree, placed resolve.Map, opts renderOpts) ([]byte, error) {
	title := opts.title
	if title == "" {
		if root, ok := tree.DisplayRoot(); ok {
			title = root.Label
		}
	}

	prog := newProgress(c.Logger)
	data, err := c.renderBytes(ctx, tree, placed, title, opts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes as %s", len(placed), opts.format))
	return data, nil
}

func (c *CLI) renderBytes(ctx context.Context, tree mindmap.Tree, placed resolve.Map, title string, opts renderOpts) ([]byte, error) {
	if opts.format == render.FormatSVG && opts.engine == engineNative {
		return render.SVG(tree, placed, c.Config.svgOptions(title)...), nil
	}

	dot := render.ToDOT(tree, placed)
	if opts.format == render.FormatDOT {
		return []byte(dot), nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering with Graphviz...")
	spinner.Start()
	data, err := render.RenderDOT(ctx, dot, opts.format)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	return data, nil
}
