package cli

import (
	"context"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

func TestOptimizeModelTick(t *testing.T) {
	var p atomic.Uint64
	m := NewOptimizeModel("Optimizing", &p, func() {})

	if m.Init() == nil {
		t.Fatal("Init should schedule a tick")
	}

	p.Store(math.Float64bits(0.4))
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(OptimizeModel)
	if m.Percent != 0.4 {
		t.Errorf("Percent = %v, want 0.4", m.Percent)
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if !strings.Contains(m.View(), "Optimizing") {
		t.Errorf("view lacks title:\n%s", m.View())
	}
}

func TestOptimizeModelCtrlCCancelsOnce(t *testing.T) {
	var p atomic.Uint64
	canceled := 0
	m := NewOptimizeModel("Optimizing", &p, func() { canceled++ })

	for i := 0; i < 2; i++ {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		m = next.(OptimizeModel)
		if cmd != nil {
			t.Error("ctrl+c should wait for the worker instead of quitting")
		}
	}
	if canceled != 1 {
		t.Errorf("cancel called %d times, want 1", canceled)
	}
	if !m.Stopping || !strings.Contains(m.View(), "stopping") {
		t.Errorf("model not stopping:\n%s", m.View())
	}
}

func TestOptimizeModelDone(t *testing.T) {
	var p atomic.Uint64
	m := NewOptimizeModel("Optimizing", &p, func() {})
	res := &pipeline.Result{Info: layout.OptimizationInfo{InitialCost: 10, FinalCost: 4}}

	next, cmd := m.Update(doneMsg{result: res})
	m = next.(OptimizeModel)
	if cmd == nil {
		t.Fatal("done should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("done should return tea.Quit")
	}
	if m.Result != res || m.Percent != 1 {
		t.Errorf("result = %v, percent = %v", m.Result, m.Percent)
	}
	if m.View() != "" {
		t.Errorf("view after done = %q, want empty", m.View())
	}
}

func TestOptimizeModelResize(t *testing.T) {
	var p atomic.Uint64
	m := NewOptimizeModel("Optimizing", &p, context.CancelFunc(func() {}))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	if w := next.(OptimizeModel).Bar.Width; w != 60 {
		t.Errorf("bar width = %d, want 60", w)
	}
	next, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 40})
	if w := next.(OptimizeModel).Bar.Width; w != 10 {
		t.Errorf("bar width = %d, want 10", w)
	}
}
