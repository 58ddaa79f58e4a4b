package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/render"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

const (
	layoutFormatJSON  = "json"
	layoutFormatTable = "table"
)

// layoutCommand creates the layout command for printing resolved positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the radial layout of a mind map",
		Long: `Compute the radial layout of a mind map.

Every node is placed on a ring around the main idea; pinned nodes keep their
manual position. The result is printed as a table or written as JSON with one
entry per node: x, y, depth, the angular sector and whether the position
came from the layout, a pin, or both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = layoutFormatTable
				if output != "" {
					format = layoutFormatJSON
				}
			}
			if format != layoutFormatJSON && format != layoutFormatTable {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid layout format: %q (use json or table)", format)
			}
			return c.runLayout(args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table (default on stdout), json")

	return cmd
}

// runLayout loads the document, resolves positions and writes them.
func (c *CLI) runLayout(input, output, format string) error {
	ed, err := c.openEditor(input)
	if err != nil {
		return err
	}
	tree, placed := ed.Tree(), ed.Positions()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case layoutFormatJSON:
		err = writeLayoutJSON(w, placed)
	default:
		_, err = fmt.Fprintln(w, layoutTable(tree, placed))
	}
	if err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	if output != "" {
		printSuccess("Layout complete")
		printFile(output)
		printStats(tree.Len(), pinnedCount(placed), len(tree.Check()))
	}
	return nil
}

func writeLayoutJSON(w io.Writer, placed resolve.Map) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Positions resolve.Map `json:"positions"`
	}{placed})
}

// layoutTable renders placements in tree order. Nodes without a position
// are listed with empty coordinates.
func layoutTable(tree mindmap.Tree, placed resolve.Map) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	nodes := tree.Nodes()
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		p, ok := placed[n.ID]
		if !ok {
			rows = append(rows, []string{n.ID, render.DisplayLabel(n), "", "", "", "unplaced"})
			continue
		}
		depth := ""
		if p.HasLayout {
			depth = strconv.Itoa(p.Depth)
		}
		rows = append(rows, []string{
			n.ID,
			render.DisplayLabel(n),
			depth,
			strconv.FormatFloat(p.X, 'f', 1, 64),
			strconv.FormatFloat(p.Y, 'f', 1, 64),
			placementSource(p),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Label", "Depth", "X", "Y", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 5 && row < len(rows) && rows[row][5] != "layout" {
				return base.Inherit(stylePinned)
			}
			return base
		})
	return t.Render()
}

func placementSource(p resolve.Placement) string {
	switch {
	case p.Manual && p.HasLayout:
		return "pinned"
	case p.Manual:
		return "pinned (detached)"
	default:
		return "layout"
	}
}

func pinnedCount(placed resolve.Map) int {
	n := 0
	for _, p := range placed {
		if p.Manual {
			n++
		}
	}
	return n
}
