package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

const tuiTick = 100 * time.Millisecond

// =============================================================================
// OptimizeModel - Interactive optimization progress
// =============================================================================

type (
	tickMsg time.Time
	doneMsg struct {
		result *pipeline.Result
		err    error
	}
)

// OptimizeModel is the bubbletea model showing optimizer progress. The
// optimizer runs in a worker goroutine and publishes its progress through
// an atomic value that the model samples on every tick, so the search never
// waits for the terminal.
type OptimizeModel struct {
	Title    string
	Bar      progress.Model
	Percent  float64
	Result   *pipeline.Result
	Err      error
	Stopping bool

	progress *atomic.Uint64 // math.Float64bits of the latest progress
	cancel   context.CancelFunc
	start    time.Time
	elapsed  time.Duration
	quitting bool
}

// NewOptimizeModel creates a model reading progress from p. cancel stops the
// worker on ctrl+c.
func NewOptimizeModel(title string, p *atomic.Uint64, cancel context.CancelFunc) OptimizeModel {
	return OptimizeModel{
		Title:    title,
		Bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		progress: p,
		cancel:   cancel,
		start:    time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(tuiTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m OptimizeModel) Init() tea.Cmd {
	return tick()
}

func (m OptimizeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// The worker returns the best layout so far; quit once it has.
			if !m.Stopping {
				m.Stopping = true
				m.cancel()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.Bar.Width = min(max(msg.Width-len(m.Title)-12, 10), 60)
		return m, nil
	case tickMsg:
		m.Percent = math.Float64frombits(m.progress.Load())
		m.elapsed = time.Since(m.start)
		return m, tick()
	case doneMsg:
		m.Result, m.Err = msg.result, msg.err
		m.Percent = 1
		m.elapsed = time.Since(m.start)
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OptimizeModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n  ")
	b.WriteString(m.Bar.ViewAs(m.Percent))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.elapsed.Truncate(100 * time.Millisecond).String()))
	b.WriteString("\n\n")
	if m.Stopping {
		b.WriteString(StyleWarning.Render("  stopping, keeping the best layout so far..."))
	} else {
		b.WriteString(StyleDim.Render("  ctrl+c stop early"))
	}
	b.WriteString("\n")
	return b.String()
}

// runOptimizeTUI optimizes data in a worker goroutine while a progress bar
// runs in the terminal. Pipeline logs are suppressed while the bar is shown.
func runOptimizeTUI(ctx context.Context, runner *pipeline.Runner, data *mindmap.Data, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pct atomic.Uint64
	title := fmt.Sprintf("Optimizing %s (%d nodes)", displayName(data), data.Graph().NumNodes())
	p := tea.NewProgram(NewOptimizeModel(title, &pct, cancel), tea.WithOutput(os.Stderr))

	quiet := *runner
	quiet.Logger = log.New(io.Discard)
	go func() {
		result, err := quiet.Optimize(ctx, data, opts, func(f float64) {
			pct.Store(math.Float64bits(f))
		})
		p.Send(doneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display: %w", err)
	}
	m := final.(OptimizeModel)
	return m.Result, m.Err
}

func displayName(d *mindmap.Data) string {
	if d.Name != "" {
		return d.Name
	}
	if d.FileName != "" {
		return d.FileName
	}
	return "mind map"
}
