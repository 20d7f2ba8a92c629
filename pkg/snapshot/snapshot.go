// Package snapshot reads and writes mind maps as JSON node-link documents.
//
// A snapshot carries node geometry, node and edge styling and the document
// settings. It is the input and output of the CLI and the layout service. It
// is not the editor's native file format: images are only referenced by id.
//
//	{
//	  "version": 1,
//	  "name": "plan",
//	  "nodes": [{"index": 0, "x": 0, "y": 0, "text": "root"}, ...],
//	  "edges": [{"from": 0, "to": 1}, ...]
//	}
//
// Output is deterministic: nodes are written in index order and edges in
// insertion order, so equal maps produce byte-identical snapshots.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// FormatVersion is the snapshot format version written by this package.
const FormatVersion = 1

// ErrInvalidDocument is returned for snapshots that do not describe a valid
// mind map.
var ErrInvalidDocument = errors.New("invalid snapshot")

// Document is the serialized form of a [mindmap.Data].
type Document struct {
	Version int    `json:"version"`
	Name    string `json:"name,omitempty"`
	Style   *Style `json:"style,omitempty"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

// Style holds document-wide settings. Missing fields keep their defaults.
type Style struct {
	Background   *graph.Color `json:"background,omitempty"`
	EdgeColor    *graph.Color `json:"edge_color,omitempty"`
	GridColor    *graph.Color `json:"grid_color,omitempty"`
	EdgeWidth    float64      `json:"edge_width,omitempty"`
	TextSize     int          `json:"text_size,omitempty"`
	CornerRadius int          `json:"corner_radius,omitempty"`
}

// Node is a serialized node. X and Y are the node center.
type Node struct {
	Index        int          `json:"index"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	Width        float64      `json:"width,omitempty"`
	Height       float64      `json:"height,omitempty"`
	Text         string       `json:"text,omitempty"`
	Color        *graph.Color `json:"color,omitempty"`
	TextColor    *graph.Color `json:"text_color,omitempty"`
	CornerRadius int          `json:"corner_radius,omitempty"`
	TextSize     int          `json:"text_size,omitempty"`
	Image        uint64       `json:"image,omitempty"`
}

// Edge is a serialized edge between node indices.
type Edge struct {
	From     int    `json:"from"`
	To       int    `json:"to"`
	Text     string `json:"text,omitempty"`
	Dashed   bool   `json:"dashed,omitempty"`
	Arrow    string `json:"arrow,omitempty"`
	Reversed bool   `json:"reversed,omitempty"`
}

// FromData converts a mind map to its serialized form.
func FromData(d *mindmap.Data) Document {
	g := d.Graph()
	doc := Document{
		Version: FormatVersion,
		Name:    d.Name,
		Style: &Style{
			Background:   ptr(d.BackgroundColor),
			EdgeColor:    ptr(d.EdgeColor),
			GridColor:    ptr(d.GridColor),
			EdgeWidth:    d.EdgeWidth,
			TextSize:     d.TextSize,
			CornerRadius: d.CornerRadius,
		},
		Nodes: make([]Node, 0, g.NumNodes()),
		Edges: make([]Edge, 0, g.NumEdges()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{
			Index:        n.Index,
			X:            n.Location.X,
			Y:            n.Location.Y,
			Width:        n.Size.Width,
			Height:       n.Size.Height,
			Text:         n.Text,
			Color:        ptr(n.Color),
			TextColor:    ptr(n.TextColor),
			CornerRadius: n.CornerRadius,
			TextSize:     n.TextSize,
			Image:        n.ImageRef,
		})
	}
	for _, e := range g.Edges() {
		out := Edge{From: e.From, To: e.To, Text: e.Text, Dashed: e.Dashed, Reversed: e.ReversedArrow}
		if e.Arrow != graph.ArrowSingle {
			out.Arrow = e.Arrow.String()
		}
		doc.Edges = append(doc.Edges, out)
	}
	return doc
}

// ToData builds a mind map from the document. Node indices must form the
// range [0, n) in any order; missing sizes and styles take the defaults.
func (doc Document) ToData() (*mindmap.Data, error) {
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, doc.Version)
	}

	d := mindmap.New(doc.Name)
	if s := doc.Style; s != nil {
		setColor(&d.BackgroundColor, s.Background)
		setColor(&d.EdgeColor, s.EdgeColor)
		setColor(&d.GridColor, s.GridColor)
		if s.EdgeWidth > 0 {
			d.EdgeWidth = s.EdgeWidth
		}
		if s.TextSize > 0 {
			d.TextSize = s.TextSize
		}
		if s.CornerRadius > 0 {
			d.CornerRadius = s.CornerRadius
		}
	}

	nodes := slices.Clone(doc.Nodes)
	slices.SortStableFunc(nodes, func(a, b Node) int { return a.Index - b.Index })
	g := d.Graph()
	for i, in := range nodes {
		if in.Index != i {
			return nil, fmt.Errorf("%w: node indices must be 0..%d, found %d", ErrInvalidDocument, len(nodes)-1, in.Index)
		}
		n := graph.NewNode()
		n.Location = graph.Point{X: in.X, Y: in.Y}
		size := n.Size
		if in.Width > 0 {
			size.Width = in.Width
		}
		if in.Height > 0 {
			size.Height = in.Height
		}
		n.SetSize(size)
		n.Text = in.Text
		setColor(&n.Color, in.Color)
		setColor(&n.TextColor, in.TextColor)
		if in.CornerRadius > 0 {
			n.CornerRadius = in.CornerRadius
		}
		if in.TextSize > 0 {
			n.TextSize = in.TextSize
		}
		n.ImageRef = in.Image
		g.AddNode(n)
	}

	for _, in := range doc.Edges {
		e := graph.NewEdge(in.From, in.To)
		e.Text = in.Text
		e.Dashed = in.Dashed
		e.Arrow = graph.ParseArrowMode(in.Arrow)
		e.ReversedArrow = in.Reversed
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("%w: edge %d-%d: %w", ErrInvalidDocument, in.From, in.To, err)
		}
	}
	return d, nil
}

// Marshal converts a mind map to indented JSON bytes.
func Marshal(d *mindmap.Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a mind map.
func Unmarshal(data []byte) (*mindmap.Data, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a mind map as indented JSON.
func Write(d *mindmap.Data, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromData(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON snapshot.
func Read(r io.Reader) (*mindmap.Data, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.ToData()
}

// WriteFile writes a snapshot to path with 0644 permissions.
func WriteFile(d *mindmap.Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a snapshot from path. The file name is recorded on the
// returned document.
func ReadFile(path string) (*mindmap.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d.FileName = path
	return d, nil
}

func ptr(c graph.Color) *graph.Color { return &c }

func setColor(dst *graph.Color, src *graph.Color) {
	if src != nil {
		*dst = *src
	}
}
