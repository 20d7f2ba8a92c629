package graph

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Node defaults, matching the values a freshly created node gets in the editor.
const (
	MinWidth            = 200.0
	MinHeight           = 75.0
	DefaultCornerRadius = 5
	DefaultTextSize     = 11

	// UnassignedIndex marks a node that is not (yet) part of a graph, such as
	// a transient drag handle.
	UnassignedIndex = -1
)

// Point is a 2D location in scene coordinates.
type Point = r2.Vec

// Size is the width and height of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	White = Color{255, 255, 255, 255}
	Black = Color{0, 0, 0, 255}
)

// Hex returns the color as #rrggbb, or #rrggbbaa when not fully opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(h) == 6 {
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Node is a placed, sized and styled vertex of a mind map.
//
// Nodes are handles: the graph and its collaborators share the same *Node.
// Index is owned by the graph and must not be changed by callers.
type Node struct {
	Index        int
	Location     Point // center of the node
	Size         Size
	Text         string
	Color        Color
	TextColor    Color
	CornerRadius int
	TextSize     int
	ImageRef     uint64 // 0 means no attached image

	edgePoints      EdgePoints
	edgePointsSize  Size
	edgePointsValid bool
}

// NewNode returns an unattached node with default size and style.
func NewNode() *Node {
	n := &Node{
		Index:        UnassignedIndex,
		Color:        White,
		TextColor:    Black,
		CornerRadius: DefaultCornerRadius,
		TextSize:     DefaultTextSize,
	}
	n.SetSize(Size{Width: MinWidth, Height: MinHeight})
	return n
}

// Copy returns a new handle carrying all attributes of n, including its index.
func (n *Node) Copy() *Node {
	c := *n
	return &c
}

// SetSize changes the node size and recomputes its edge points.
func (n *Node) SetSize(s Size) {
	n.Size = s
	n.edgePoints = RecomputeGeometry(s)
	n.edgePointsSize = s
	n.edgePointsValid = true
}

// EdgePoints returns the connection points relative to the node center.
// Points are recomputed if Size was assigned directly instead of via SetSize.
func (n *Node) EdgePoints() EdgePoints {
	if !n.edgePointsValid || n.edgePointsSize != n.Size {
		n.SetSize(n.Size)
	}
	return n.edgePoints
}

// HasImage reports whether an image is attached to the node.
func (n *Node) HasImage() bool { return n.ImageRef != 0 }

// BoundingBox returns the node rectangle in scene coordinates.
func (n *Node) BoundingBox() Rect {
	return RectAround(n.Location, n.Size)
}
