package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
)

// convertCommand creates the convert command that changes document formats.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a mind map between JSON, YAML and OPML",
		Long: `Convert a mind map between JSON, YAML and OPML.

Formats are chosen by file extension. OPML carries only the outline: manual
positions and the view transform are dropped, and node IDs are regenerated
when reading OPML.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			doc, err := document.ReadFile(in)
			if err != nil {
				return err
			}
			if doc.Skipped > 0 {
				printWarning("Skipped %d unreadable node records", doc.Skipped)
			}
			if err := document.WriteFile(out, doc); err != nil {
				return err
			}
			printSuccess("Converted %d nodes", len(doc.Nodes))
			printFile(out)
			return nil
		},
	}
}

// checkCommand creates the check command that reports integrity issues.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Report structural problems in a mind map",
		Long: `Report structural problems in a mind map.

Checks for a missing or repeated root, parents that don't exist, parent
cycles and duplicate IDs. Exits non-zero when anything is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			issues := mindmap.CheckNodes(doc.Nodes)
			if doc.Skipped > 0 {
				printWarning("Skipped %d node records without a usable id", doc.Skipped)
			}
			if len(issues) == 0 {
				printSuccess("%d nodes, no issues", len(doc.Nodes))
				return nil
			}
			printError("%d issues in %d nodes", len(issues), len(doc.Nodes))
			for _, issue := range issues {
				printDetail("%s", issue)
			}
			return errors.New(errors.ErrCodeInvalidDocument, "%s failed integrity check", args[0])
		},
	}
}

// describeIssues summarizes integrity issues for status lines.
func describeIssues(issues []mindmap.Issue) string {
	switch len(issues) {
	case 0:
		return "no issues"
	case 1:
		return issues[0].String()
	default:
		return fmt.Sprintf("%s (+%d more)", issues[0], len(issues)-1)
	}
}
