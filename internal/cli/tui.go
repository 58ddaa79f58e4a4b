package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/editor"
	"github.com/matzehuels/mindtower/pkg/mindmap"
	"github.com/matzehuels/mindtower/pkg/render"
	"github.com/matzehuels/mindtower/pkg/resolve"
)

// Outline styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusBarStyle    = lipgloss.NewStyle().Foreground(colorGray).BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorDim)
)

// =============================================================================
// Key Bindings
// =============================================================================

// keyMap defines the editor's keyboard shortcuts.
type keyMap struct {
	Up, Down, Parent, Child key.Binding

	Add, Edit, Delete key.Binding
	Undo, Redo        key.Binding

	NudgeLeft, NudgeDown, NudgeUp, NudgeRight key.Binding
	Unpin                                     key.Binding
	SiblingUp, SiblingDown                    key.Binding

	Save, Quit, ForceQuit key.Binding
}

var defaultKeyMap = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Parent: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "parent")),
	Child:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "child")),

	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	Redo:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "redo")),

	NudgeLeft:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "nudge left")),
	NudgeDown:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "nudge down")),
	NudgeUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "nudge up")),
	NudgeRight: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "nudge right")),
	Unpin:      key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "unpin")),

	SiblingUp:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move up")),
	SiblingDown: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move down")),

	Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "quit without saving")),
}

// =============================================================================
// Outline
// =============================================================================

// outlineRow is one line of the outline view.
type outlineRow struct {
	node     mindmap.Node
	depth    int
	detached bool
}

// buildOutline lists nodes depth-first from the display root. Nodes not
// reachable from it follow at depth 0, marked detached.
func buildOutline(tree mindmap.Tree) []outlineRow {
	nodes := tree.Nodes()
	children := make(map[string][]mindmap.Node, len(nodes))
	for _, n := range nodes {
		if !n.IsRoot() {
			children[n.ParentID] = append(children[n.ParentID], n)
		}
	}

	rows := make([]outlineRow, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	var walk func(n mindmap.Node, depth int, detached bool)
	walk = func(n mindmap.Node, depth int, detached bool) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		rows = append(rows, outlineRow{node: n, depth: depth, detached: detached})
		for _, c := range children[n.ID] {
			walk(c, depth+1, detached)
		}
	}

	if root, ok := tree.DisplayRoot(); ok {
		walk(root, 0, false)
	}
	for _, n := range nodes {
		walk(n, 0, true)
	}
	return rows
}

// =============================================================================
// editorModel - Interactive mind-map editor
// =============================================================================

// editorModel is the bubbletea model of the edit command.
type editorModel struct {
	ed    *editor.Editor
	path  string
	keys  keyMap
	input textinput.Model

	// nudge is the distance of one H/J/K/L step.
	nudge float64

	editing  bool
	confirm  bool
	savedRev uint64
	status   string
	autosave string

	height   int
	offset   int
	quitting bool
	err      error
}

// newEditorModel creates a model over ed, which is saved to path.
func newEditorModel(ed *editor.Editor, path string, nudge float64) editorModel {
	input := textinput.New()
	input.Prompt = "label: "
	input.CharLimit = 200

	if nudge <= 0 {
		nudge = editor.DefaultGridSize
	}
	if ed.Selected() == "" {
		if root, ok := ed.Tree().DisplayRoot(); ok {
			ed.Select(root.ID)
		}
	}
	return editorModel{
		ed:       ed,
		path:     path,
		keys:     defaultKeyMap,
		input:    input,
		nudge:    nudge,
		savedRev: ed.Revision(),
		height:   20,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) dirty() bool {
	return m.ed.Revision() != m.savedRev
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 5
		if m.height < 5 {
			m.height = 5
		}
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m editorModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.ed.SetLabel(m.ed.Selected(), m.input.Value())
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		m.status = "edit cancelled"
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editorModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := m.confirm
	m.confirm = false
	m.status = ""
	sel := m.ed.Selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.dirty() && !confirm {
			m.confirm = true
			m.status = "unsaved changes: s to save, q again or Q to quit"
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Parent):
		if n, ok := m.ed.Tree().Node(sel); ok && !n.IsRoot() {
			m.ed.Select(n.ParentID)
		}
	case key.Matches(msg, m.keys.Child):
		if kids := m.ed.Tree().Children(sel); len(kids) > 0 {
			m.ed.Select(kids[0].ID)
		}

	case key.Matches(msg, m.keys.Add):
		if id, ok := m.ed.AddChild(sel); ok {
			m.status = "added " + id
			return m.startEditing("")
		}
	case key.Matches(msg, m.keys.Edit):
		if n, ok := m.ed.Tree().Node(sel); ok {
			return m.startEditing(n.Label)
		}
	case key.Matches(msg, m.keys.Delete):
		m.deleteBranch(sel)
	case key.Matches(msg, m.keys.Undo):
		if !m.ed.Undo() {
			m.status = "nothing to undo"
		}
	case key.Matches(msg, m.keys.Redo):
		if !m.ed.Redo() {
			m.status = "nothing to redo"
		}

	case key.Matches(msg, m.keys.NudgeLeft):
		m.nudgeSelected(resolve.Point{X: -m.nudge})
	case key.Matches(msg, m.keys.NudgeRight):
		m.nudgeSelected(resolve.Point{X: m.nudge})
	case key.Matches(msg, m.keys.NudgeUp):
		m.nudgeSelected(resolve.Point{Y: -m.nudge})
	case key.Matches(msg, m.keys.NudgeDown):
		m.nudgeSelected(resolve.Point{Y: m.nudge})
	case key.Matches(msg, m.keys.Unpin):
		if m.ed.ResetPosition(sel) {
			m.status = "unpinned " + sel
		}
	case key.Matches(msg, m.keys.SiblingUp):
		m.ed.MoveSibling(sel, -1)
	case key.Matches(msg, m.keys.SiblingDown):
		m.ed.MoveSibling(sel, 1)

	case key.Matches(msg, m.keys.Save):
		m.save()
	}
	m.scrollToSelection()
	return m, nil
}

// deleteBranch deletes id and its descendants and reports the result in
// the status line.
func (m *editorModel) deleteBranch(id string) {
	if removed, ok := m.ed.DeleteBranch(id); ok {
		m.status = fmt.Sprintf("deleted %d nodes", len(removed))
		return
	}
	if root, ok := m.ed.Tree().DisplayRoot(); ok && root.ID == id {
		m.status = "the main idea cannot be deleted"
		return
	}
	m.status = fmt.Sprintf("no node %q to delete", id)
}

func (m editorModel) startEditing(value string) (tea.Model, tea.Cmd) {
	m.editing = true
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// nudgeSelected moves the selected node by d through a drag, so the move
// snaps to the grid and undoes as one step.
func (m *editorModel) nudgeSelected(d resolve.Point) {
	sel := m.ed.Selected()
	if !m.ed.BeginDrag(sel, resolve.Point{}) {
		m.status = sel + " has no position"
		return
	}
	m.ed.MoveDrag(d)
	m.ed.EndDrag()
}

func (m *editorModel) moveCursor(delta int) {
	rows := buildOutline(m.ed.Tree())
	if len(rows) == 0 {
		return
	}
	i := 0
	for j, r := range rows {
		if r.node.ID == m.ed.Selected() {
			i = j
			break
		}
	}
	i = max(0, min(len(rows)-1, i+delta))
	m.ed.Select(rows[i].node.ID)
}

func (m *editorModel) scrollToSelection() {
	for i, r := range buildOutline(m.ed.Tree()) {
		if r.node.ID != m.ed.Selected() {
			continue
		}
		if i < m.offset {
			m.offset = i
		}
		if i >= m.offset+m.height {
			m.offset = i - m.height + 1
		}
		return
	}
}

func (m *editorModel) save() {
	if err := document.WriteFile(m.path, m.ed.Snapshot()); err != nil {
		m.err = err
		m.status = "save failed: " + err.Error()
		return
	}
	m.err = nil
	m.savedRev = m.ed.Revision()
	m.status = "saved " + m.path
}

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	title := m.path
	if m.dirty() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("a add  e edit  d delete  u/^r undo/redo  HJKL nudge  0 unpin  [ ] reorder  s save  q quit"))
	b.WriteString("\n\n")

	rows := buildOutline(m.ed.Tree())
	placed := m.ed.Positions()
	end := min(len(rows), m.offset+m.height)
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(rows[i], placed))
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(statusBarStyle.Render(m.statusLine(placed)))
	return b.String()
}

func (m editorModel) renderRow(r outlineRow, placed resolve.Map) string {
	cursor := "  "
	style := listNormalStyle
	if r.node.ID == m.ed.Selected() {
		cursor = "▸ "
		style = listSelectedStyle
	} else if r.detached {
		style = listDimStyle
	}

	line := cursor + strings.Repeat("  ", r.depth) + render.DisplayLabel(r.node)
	suffix := ""
	if p, ok := placed[r.node.ID]; ok && p.Manual {
		suffix = " " + stylePinned.Render("◆")
	}
	if r.detached {
		suffix += " " + listDimStyle.Render("(detached)")
	}
	return style.Render(line) + suffix
}

func (m editorModel) statusLine(placed resolve.Map) string {
	sel := m.ed.Selected()
	parts := []string{sel}
	if p, ok := placed[sel]; ok {
		parts = append(parts, formatPoint(p.X, p.Y))
		if p.HasLayout {
			parts = append(parts, fmt.Sprintf("depth %d", p.Depth))
		}
		if p.Manual {
			parts = append(parts, iconPinned)
		}
	} else {
		parts = append(parts, "unplaced")
	}
	if m.autosave != "" {
		parts = append(parts, "autosave "+m.autosave[:min(8, len(m.autosave))])
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}
