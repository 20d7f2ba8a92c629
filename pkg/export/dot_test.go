package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

func sample(t *testing.T) *mindmap.Data {
	t.Helper()
	d := mindmap.New("trip")
	a := graph.NewNode()
	a.Text = "Trip"
	a.Location = graph.Point{X: 100, Y: 50}
	b := graph.NewNode()
	b.Text = "Pack \"light\""
	b.Location = graph.Point{X: 400, Y: 50}
	d.Graph().AddNode(a)
	d.Graph().AddNode(b)
	e := graph.NewEdge(0, 1)
	e.Dashed = true
	e.Arrow = graph.ArrowDouble
	if err := d.Graph().AddEdge(e); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	for _, want := range []string{
		"digraph G {",
		"inputscale=72;",
		`bgcolor="#babdb6";`,
		`n0 [label="Trip", pos="100,-50!", width=`,
		`label="Pack \"light\""`,
		"n0 -> n1 [style=dashed, dir=both];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(sample(t), Options{Transparent: true, ShowIndex: true})
	if !strings.Contains(dot, `bgcolor="transparent"`) {
		t.Error("expected transparent background")
	}
	if !strings.Contains(dot, `label="1: Pack`) {
		t.Errorf("expected indexed label:\n%s", dot)
	}
}

func TestEdgeAttrs(t *testing.T) {
	tests := []struct {
		name string
		edge graph.Edge
		want []string
	}{
		{name: "Plain", edge: graph.Edge{}, want: nil},
		{name: "Hidden", edge: graph.Edge{Arrow: graph.ArrowHidden}, want: []string{"dir=none"}},
		{name: "Reversed", edge: graph.Edge{ReversedArrow: true}, want: []string{"dir=back"}},
		{name: "Label", edge: graph.Edge{Text: "why"}, want: []string{`label="why"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := edgeAttrs(&tt.edge)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("edgeAttrs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t), Options{}), "")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("Trip")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestRenderSVGUnknownEngine(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph G {}", "sfdp3d"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.40 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.40 200.00" width="100" height="200">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
