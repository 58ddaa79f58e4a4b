package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/editor"
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// newCommand creates the new command that writes a seed document.
func (c *CLI) newCommand() *cobra.Command {
	var (
		title string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a mind map with a main idea and two branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
				}
			}

			ed := c.newEditor()
			if root, ok := ed.Tree().Root(); ok && title != "" {
				ed.SetLabel(root.ID, title)
			}
			if err := document.WriteFile(path, ed.Snapshot()); err != nil {
				return err
			}
			printSuccess("Created mind map")
			printFile(path)
			printNewline()
			printNextStep("Edit", appName+" edit "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "label of the main idea")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

// addCommand creates the add command that appends a child node.
func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [file] [parent-id] [label]",
		Short: "Add a child node under a parent",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updateDocument(args[0], func(ed *editor.Editor) error {
				parent := args[1]
				if err := requireNode(ed, parent); err != nil {
					return err
				}
				id, _ := ed.AddChild(parent)
				if len(args) == 3 {
					ed.SetLabel(id, args[2])
				}
				printSuccess("Added %s under %s", StyleHighlight.Render(id), parent)
				return nil
			})
		},
	}
}

// labelCommand creates the label command that renames a node.
func (c *CLI) labelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "label [file] [id] [text]",
		Short: "Set the label of a node",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updateDocument(args[0], func(ed *editor.Editor) error {
				id := args[1]
				if err := requireNode(ed, id); err != nil {
					return err
				}
				text := strings.Join(args[2:], " ")
				ed.SetLabel(id, text)
				printSuccess("Labeled %s %q", StyleHighlight.Render(id), text)
				return nil
			})
		},
	}
}

// deleteCommand creates the delete command that removes a branch.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [file] [id]",
		Short: "Delete a node and all of its descendants",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.updateDocument(args[0], func(ed *editor.Editor) error {
				id := args[1]
				if err := requireNode(ed, id); err != nil {
					return err
				}
				removed, ok := ed.DeleteBranch(id)
				if !ok {
					return errors.New(errors.ErrCodeInvalidInput, "cannot delete the root node %s", id)
				}
				printSuccess("Deleted %d nodes", len(removed))
				printDetail("%s", strings.Join(removed, ", "))
				return nil
			})
		},
	}
}

// moveCommand creates the move command that pins a node to a position.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move [file] [id] [x] [y]",
		Short: "Pin a node to a manual position",
		Long: `Pin a node to a manual position.

The position is snapped to the configured grid (grid_size) and overrides the
computed radial position until the node is unpinned. Separate negative
coordinates from the flags with "--":

  mindtower move map.json node-1 -- -120 40`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(args[2], args[3])
			if err != nil {
				return err
			}
			return c.updateDocument(args[0], func(ed *editor.Editor) error {
				id := args[1]
				if err := requireNode(ed, id); err != nil {
					return err
				}
				ed.SetPosition(id, p)
				got, _ := ed.Overrides().Get(id)
				printSuccess("Pinned %s at (%g, %g)", StyleHighlight.Render(id), got.X, got.Y)
				return nil
			})
		},
	}
}

// unpinCommand creates the unpin command that removes manual positions.
func (c *CLI) unpinCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "unpin [file] [id...]",
		Short: "Return nodes to their computed positions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args[1:] {
				if err := errors.ValidateNodeID(id); err != nil {
					return err
				}
			}
			return c.updateDocument(args[0], func(ed *editor.Editor) error {
				ids := args[1:]
				if all {
					ids = nil
					for id := range ed.Overrides() {
						ids = append(ids, id)
					}
				}
				n := 0
				for _, id := range ids {
					if ed.ResetPosition(id) {
						n++
					}
				}
				printSuccess("Unpinned %d nodes", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "unpin every node")

	return cmd
}

// updateDocument loads path, applies fn and writes the result back when
// anything changed.
func (c *CLI) updateDocument(path string, fn func(*editor.Editor) error) error {
	ed, err := c.openEditor(path)
	if err != nil {
		return err
	}
	rev := ed.Revision()
	if err := fn(ed); err != nil {
		return err
	}
	if ed.Revision() == rev {
		c.Logger.Debug("document unchanged", "path", path)
		return nil
	}
	if err := document.WriteFile(path, ed.Snapshot()); err != nil {
		return err
	}
	printFile(path)
	return nil
}

func requireNode(ed *editor.Editor, id string) error {
	if err := errors.ValidateNodeID(id); err != nil {
		return err
	}
	if !ed.Tree().Has(id) {
		return errors.New(errors.ErrCodeNotFound, "no node with id %q", id)
	}
	return nil
}

func parsePoint(xs, ys string) (resolve.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return resolve.Point{}, errors.New(errors.ErrCodeInvalidInput, "invalid x coordinate: %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return resolve.Point{}, errors.New(errors.ErrCodeInvalidInput, "invalid y coordinate: %q", ys)
	}
	return resolve.Point{X: x, Y: y}, nil
}

// formatPoint prints a coordinate pair for tables and status lines.
func formatPoint(x, y float64) string {
	return fmt.Sprintf("(%.1f, %.1f)", x, y)
}
