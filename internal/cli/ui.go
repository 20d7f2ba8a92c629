package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindmap/pkg/layout"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	labelCached = "cached"
	labelFresh  = "optimized"
)

// printer writes styled status lines for humans. Machine readable output
// (snapshots, exports) never goes through it.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(icon lipgloss.Style, glyph, msg string) {
	fmt.Fprintln(p.w, icon.Render(glyph)+" "+msg)
}

func (p printer) success(format string, args ...any) {
	p.line(styleIconSuccess, iconSuccess, fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.line(styleIconError, iconError, fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	p.line(StyleWarning, iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleIconInfo, iconInfo, fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// stats prints "N nodes · M edges · cached|optimized".
func (p printer) stats(nodes, edges int, cached bool) {
	label, style := labelFresh, styleComputed
	if cached {
		label, style = labelCached, styleCached
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(p.w, "  "+strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
		style.Render(label),
	}, sep))
}

// cost prints the layout cost before and after optimization.
func (p printer) cost(info layout.OptimizationInfo) {
	change := "unchanged"
	if info.InitialCost > 0 && info.Improvement() > 0 {
		change = fmt.Sprintf("-%.1f%%", 100*info.Improvement()/info.InitialCost)
	}
	fmt.Fprintln(p.w, "  "+StyleDim.Render("cost ")+
		StyleNumber.Render(fmt.Sprintf("%.2f", info.InitialCost))+
		StyleDim.Render(" "+iconArrow+" ")+
		StyleNumber.Render(fmt.Sprintf("%.2f", info.FinalCost))+
		StyleDim.Render(fmt.Sprintf(" (%s, %d moves, %d iterations)", change, info.Changes, info.Iterations)))
}

func (p printer) nextStep(description, cmd string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
