package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/editor"
)

// defaultDebounce collapses bursts of write events into one render.
const defaultDebounce = 200 * time.Millisecond

// watchCommand creates the watch command that re-renders on every change.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		formatStr string
		debounce  time.Duration
	)
	opts := renderOpts{engine: engineNative}

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render a mind map whenever it changes",
		Long: `Re-render a mind map whenever it changes.

The directory holding the file is watched so that editors which save by
writing a new file and renaming it are picked up too. Rendering errors are
logged and watching continues.`,
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
			if opts.output == "" || opts.output == "-" {
				input := args[0]
				opts.output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + string(opts.format)
			}
			return c.runWatch(cmd.Context(), args[0], opts, debounce)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&formatStr, "format", "f", "", "output format: svg (default), dot, png")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "renderer: native (default), graphviz")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-rendering")

	return cmd
}

// runWatch renders once, then again after every change until ctx is done.
func (c *CLI) runWatch(ctx context.Context, input string, opts renderOpts, debounce time.Duration) error {
	abs, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", input, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ed := c.newEditor()
	rerender := func() {
		if err := c.renderOnce(ctx, ed, input, opts); err != nil {
			c.Logger.Error("render failed", "file", input, "error", err)
		}
	}

	rerender()
	printInfo("Watching %s %s %s", input, iconArrow, opts.output)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDocumentEvent(event, abs) {
				continue
			}
			c.Logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			rerender()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watcher error", "error", err)
		}
	}
}

// renderOnce reloads input into ed and writes one rendering.
func (c *CLI) renderOnce(ctx context.Context, ed *editor.Editor, input string, opts renderOpts) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return err
	}
	ed.Load(doc)
	tree := ed.Tree()
	if issues := tree.Check(); len(issues) > 0 {
		c.Logger.Warn("document has issues", "file", input, "issues", describeIssues(issues))
	}

	data, err := c.renderPlaced(ctx, tree, ed.Positions(), opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	return nil
}

// isDocumentEvent reports whether event changes the watched file.
func isDocumentEvent(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
