package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/autosave"
	"github.com/matzehuels/mindtower/pkg/editor"
	"github.com/matzehuels/mindtower/pkg/errors"
)

// editCommand creates the edit command that opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		restoreKey string
		noAutosave bool
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a mind map in the terminal",
		Long: `Edit a mind map in the terminal.

A missing file starts from a new mind map and is created on the first save.
While the editor runs, snapshots are autosaved in the background; list them
with 'mindtower autosave list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], restoreKey, !noAutosave && c.Config.Autosave.Enabled)
		},
	}

	cmd.Flags().StringVar(&restoreKey, "restore", "", "start from the autosave with this key")
	cmd.Flags().BoolVar(&noAutosave, "no-autosave", false, "disable background autosave")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path, restoreKey string, withAutosave bool) error {
	ed, err := c.loadForEdit(ctx, path, restoreKey)
	if err != nil {
		return err
	}

	model := newEditorModel(ed, path, c.Config.GridSize)

	// Log lines would tear the alternate screen; hold them until it closes.
	var held bytes.Buffer
	c.Logger.SetOutput(&held)
	defer func() {
		c.Logger.SetOutput(os.Stderr)
		os.Stderr.Write(held.Bytes())
	}()

	var wg sync.WaitGroup
	saveCtx, stopSaver := context.WithCancel(ctx)
	defer func() {
		stopSaver()
		wg.Wait()
	}()
	if withAutosave {
		saver, err := c.startAutosave(saveCtx, ed, restoreKey, &wg)
		if err != nil {
			c.Logger.Warn("autosave disabled", "error", err)
		} else {
			model.autosave = saver.Key()
		}
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if m, ok := final.(editorModel); ok && m.dirty() {
		printWarning("Quit with unsaved changes")
		if m.autosave != "" {
			printNextStep("Recover", appName+" autosave restore "+m.autosave+" "+path)
		}
	}
	return nil
}

// loadForEdit opens path, falling back to a new mind map when the file does
// not exist, or restores an autosave when restoreKey is set.
func (c *CLI) loadForEdit(ctx context.Context, path, restoreKey string) (*editor.Editor, error) {
	if restoreKey != "" {
		store, err := c.autosaveStore()
		if err != nil {
			return nil, err
		}
		doc, err := autosave.Restore(ctx, store, restoreKey)
		if err != nil {
			return nil, fmt.Errorf("restore %s: %w", restoreKey, err)
		}
		ed := c.newEditor()
		ed.Load(doc)
		return ed, nil
	}

	ed, err := c.openEditor(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		c.Logger.Info("starting new mind map", "path", path)
		return c.newEditor(), nil
	}
	return ed, err
}

// startAutosave runs a saver for ed until ctx is done. Restored sessions
// keep saving under their original key.
func (c *CLI) startAutosave(ctx context.Context, ed *editor.Editor, key string, wg *sync.WaitGroup) (*autosave.Saver, error) {
	store, err := c.autosaveStore()
	if err != nil {
		return nil, err
	}
	saver := autosave.NewSaver(store, ed, autosave.Options{
		Key:      key,
		Interval: c.Config.Autosave.Interval.Duration,
		Logger:   c.Logger,
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		saver.Run(ctx)
	}()
	return saver, nil
}
