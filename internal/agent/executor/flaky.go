package executor

import (
	"errors"
	"log/slog"
	"math/rand/v2"
)

// DefaultThreshold is the success probability of a flaky run.
const DefaultThreshold = 0.4

// ErrTaskFailed is the simulated failure outcome.
var ErrTaskFailed = errors.New("task failed")

// Source yields uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// GlobalSource draws from the process-wide generator, which is safe for
// concurrent use.
type GlobalSource struct{}

func (GlobalSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// FlakyTask succeeds when its draw is below the threshold and fails otherwise.
type FlakyTask struct {
	logger    *slog.Logger
	source    Source
	threshold float64
	lastDraw  float64
}

// NewFlakyTask builds a task with the given threshold. A nil source uses
// GlobalSource; a nil logger uses slog.Default().
func NewFlakyTask(logger *slog.Logger, source Source, threshold float64) *FlakyTask {
	if logger == nil {
		logger = slog.Default()
	}
	if source == nil {
		source = GlobalSource{}
	}
	return &FlakyTask{logger: logger, source: source, threshold: threshold}
}

func (t *FlakyTask) Name() string { return "flaky" }

// Run draws once and logs a single line describing the outcome.
func (t *FlakyTask) Run() error {
	t.lastDraw = t.source.Float64()
	if t.lastDraw < t.threshold {
		t.logger.Info("Task succeeded", "draw", t.lastDraw)
		return nil
	}
	t.logger.Error("Task failed", "draw", t.lastDraw)
	return ErrTaskFailed
}

// LastDraw is the value drawn by the most recent Run.
func (t *FlakyTask) LastDraw() float64 { return t.lastDraw }
