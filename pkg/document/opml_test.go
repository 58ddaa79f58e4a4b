package document

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/mindtower/pkg/mindmap"
)

func TestDecodeOPMLSingleTopLevel(t *testing.T) {
	input := `<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Weekend</title></head>
  <body>
    <outline text="Trip">
      <outline text="Packing">
        <outline text="Socks"/>
      </outline>
      <outline text="Route"/>
    </outline>
  </body>
</opml>`

	d, err := Decode(strings.NewReader(input), FormatOPML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []mindmap.Node{
		{ID: "root", Label: "Trip"},
		{ID: "node-1", Label: "Packing", ParentID: "root"},
		{ID: "node-2", Label: "Socks", ParentID: "node-1"},
		{ID: "node-3", Label: "Route", ParentID: "root"},
	}
	if !reflect.DeepEqual(d.Nodes, want) {
		t.Errorf("Nodes = %+v\nwant %+v", d.Nodes, want)
	}
	if d.Title != "Weekend" {
		t.Errorf("Title = %q", d.Title)
	}
}

func TestDecodeOPMLWrapsTopLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		rootLabel string
		nodes     int
	}{
		{
			name:      "titled",
			input:     `<opml version="2.0"><head><title>Ideas</title></head><body><outline text="A"/><outline text="B"/></body></opml>`,
			rootLabel: "Ideas",
			nodes:     3,
		},
		{
			name:      "untitled",
			input:     `<opml version="2.0"><head/><body><outline text="A"/><outline text="B"/></body></opml>`,
			rootLabel: DefaultTitle,
			nodes:     3,
		},
		{
			name:      "empty body",
			input:     `<opml version="2.0"><head><title>Blank</title></head><body/></opml>`,
			rootLabel: "Blank",
			nodes:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode(strings.NewReader(tt.input), FormatOPML)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(d.Nodes) != tt.nodes {
				t.Fatalf("len(Nodes) = %d, want %d", len(d.Nodes), tt.nodes)
			}
			root, ok := d.Tree("").Root()
			if !ok || root.Label != tt.rootLabel {
				t.Errorf("root = %+v, want label %q", root, tt.rootLabel)
			}
		})
	}
}

func TestOPMLRoundTrip(t *testing.T) {
	tree := mindmap.Seed()
	tree, a, _ := tree.AddChild("node-1")
	tree, _ = tree.SetLabel(a, "Sub <idea> & more")
	tree, _, _ = tree.AddChild(a)
	orig := New(tree, nil, nil)

	var buf bytes.Buffer
	if err := Encode(&buf, orig, FormatOPML); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<?xml") {
		t.Errorf("missing xml header:\n%s", buf.String())
	}

	got, err := Decode(&buf, FormatOPML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// IDs are regenerated, so compare labels in depth-first order.
	want := []string{"Main idea", "Idea A", "Sub <idea> & more", "", "Idea B"}
	var labels []string
	for _, n := range got.Nodes {
		labels = append(labels, n.Label)
	}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %q, want %q", labels, want)
	}
	if issues := got.Tree("").Check(); len(issues) != 0 {
		t.Errorf("round-tripped tree has issues: %v", issues)
	}
}

func TestEncodeOPMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, &Document{}, FormatOPML); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(buf.String(), "<outline") {
		t.Errorf("empty document should have no outlines:\n%s", buf.String())
	}
}
