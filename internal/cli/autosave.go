package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/autosave"
	"github.com/matzehuels/mindtower/pkg/document"
)

// autosaveCommand creates the autosave management command.
func (c *CLI) autosaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autosave",
		Short: "Manage editor autosaves",
	}

	cmd.AddCommand(c.autosaveListCommand())
	cmd.AddCommand(c.autosaveRestoreCommand())
	cmd.AddCommand(c.autosaveClearCommand())

	return cmd
}

// autosaveListCommand creates the "autosave list" subcommand.
func (c *CLI) autosaveListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored autosaves, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.autosaveStore()
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No autosaves")
				printDetail("Directory: %s", store.Dir())
				return nil
			}
			for _, e := range entries {
				printKeyValue(formatAge(time.Since(e.SavedAt)), e.Key+StyleDim.Render(fmt.Sprintf("  %d bytes", e.Size)))
			}
			printNewline()
			printNextStep("Restore", appName+" autosave restore <key> map.json")
			return nil
		},
	}
}

// autosaveRestoreCommand creates the "autosave restore" subcommand.
func (c *CLI) autosaveRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [key] [file]",
		Short: "Write an autosave to a document file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.autosaveStore()
			if err != nil {
				return err
			}
			doc, err := autosave.Restore(cmd.Context(), store, args[0])
			if err != nil {
				return fmt.Errorf("restore %s: %w", args[0], err)
			}
			if err := document.WriteFile(args[1], doc); err != nil {
				return err
			}
			printSuccess("Restored %d nodes", len(doc.Nodes))
			printFile(args[1])
			return nil
		},
	}
}

// autosaveClearCommand creates the "autosave clear" subcommand.
func (c *CLI) autosaveClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [key...]",
		Short: "Delete the given autosaves, or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.autosaveStore()
			if err != nil {
				return err
			}
			keys := args
			if len(keys) == 0 {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, e := range entries {
					keys = append(keys, e.Key)
				}
			}
			for _, key := range keys {
				if err := store.Delete(cmd.Context(), key); err != nil {
					return err
				}
			}
			printSuccess("Cleared %d autosaves", len(keys))
			printDetail("Directory: %s", store.Dir())
			return nil
		},
	}
}

func (c *CLI) autosaveStore() (*autosave.FileStore, error) {
	return autosave.NewFileStore(c.Config.Autosave.Dir)
}

// formatAge renders a duration as a short relative time.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
