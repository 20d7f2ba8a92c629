package cli

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/layout"
)

// progressReporter turns optimizer progress into log lines and spinner text.
// It logs each completed tenth of the search at debug level and a heartbeat
// at info level every 10 seconds.
//
// The reporter is not safe for concurrent use; the optimizer calls it from a
// single goroutine.
type progressReporter struct {
	logger    *log.Logger
	spinner   *Spinner
	message   string
	lastStep  int
	start     time.Time
	lastLog   time.Time
	heartbeat time.Duration
}

func newProgressReporter(logger *log.Logger, spinner *Spinner, message string) *progressReporter {
	now := time.Now()
	return &progressReporter{
		logger:    logger,
		spinner:   spinner,
		message:   message,
		lastStep:  -1,
		start:     now,
		lastLog:   now,
		heartbeat: 10 * time.Second,
	}
}

// Callback returns the function handed to the optimizer.
func (r *progressReporter) Callback() layout.ProgressCallback {
	return r.onProgress
}

func (r *progressReporter) onProgress(p float64) {
	pct := int(math.Round(p * 100))
	if r.spinner != nil {
		r.spinner.SetMessage(percentMessage(r.message, pct))
	}

	step := int(p * 10)
	switch {
	case step > r.lastStep:
		r.logger.Debugf("Search %d%% complete", step*10)
		r.lastStep = step
	case time.Since(r.lastLog) >= r.heartbeat:
		elapsed := time.Since(r.start).Truncate(time.Second)
		r.logger.Infof("Optimizing... %d%% after %v", pct, elapsed)
	default:
		return
	}
	r.lastLog = time.Now()
}
