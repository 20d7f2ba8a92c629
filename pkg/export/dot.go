package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Graphviz engines accepted by [RenderSVG].
const (
	// EngineNeato honors the pinned node positions.
	EngineNeato = "neato"
	// EngineDot ignores positions and lays the map out hierarchically.
	EngineDot = "dot"
)

// Options configures DOT generation.
type Options struct {
	// Transparent omits the document background color.
	Transparent bool
	// ShowIndex prefixes node labels with the node index.
	ShowIndex bool
}

// ToDOT converts a mind map to Graphviz DOT.
func ToDOT(d *mindmap.Data, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	if opts.Transparent {
		buf.WriteString("  bgcolor=\"transparent\";\n")
	} else {
		fmt.Fprintf(&buf, "  bgcolor=%q;\n", d.BackgroundColor.Hex())
	}
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontsize=%d];\n", d.TextSize)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%s];\n", d.EdgeColor.Hex(), fmtFloat(d.EdgeWidth))
	buf.WriteString("\n")

	g := d.Graph()
	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.Index, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, opts Options) []string {
	label := n.Text
	if opts.ShowIndex {
		label = fmt.Sprintf("%d: %s", n.Index, n.Text)
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Location.X), fmtFloat(-n.Location.Y)),
		fmt.Sprintf("width=%s", fmtFloat(n.Size.Width/72)),
		fmt.Sprintf("height=%s", fmtFloat(n.Size.Height/72)),
		fmt.Sprintf("fillcolor=%q", n.Color.Hex()),
		fmt.Sprintf("fontcolor=%q", n.TextColor.Hex()),
		fmt.Sprintf("fontsize=%d", n.TextSize),
	}
}

func edgeAttrs(e *graph.Edge) []string {
	var attrs []string
	if e.Text != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Text))
	}
	if e.Dashed {
		attrs = append(attrs, "style=dashed")
	}
	switch {
	case e.Arrow == graph.ArrowHidden:
		attrs = append(attrs, "dir=none")
	case e.Arrow == graph.ArrowDouble:
		attrs = append(attrs, "dir=both")
	case e.ReversedArrow:
		attrs = append(attrs, "dir=back")
	}
	return attrs
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders DOT source to SVG with the given Graphviz engine. An
// empty engine means [EngineNeato].
func RenderSVG(ctx context.Context, dot, engine string) ([]byte, error) {
	layout, err := parseEngine(engine)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(layout)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

func parseEngine(engine string) (graphviz.Layout, error) {
	switch engine {
	case "", EngineNeato:
		return graphviz.NEATO, nil
	case EngineDot:
		return graphviz.DOT, nil
	default:
		return "", fmt.Errorf("unknown graphviz engine %q", engine)
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with a plain one that
// scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
