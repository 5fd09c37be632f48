package executor

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestFlakyTaskOutcomes(t *testing.T) {
	cases := []struct {
		draw     float64
		wantErr  error
		wantCode int
		wantLog  string
		level    string
	}{
		{draw: 0.1, wantErr: nil, wantCode: 0, wantLog: "Task succeeded", level: "level=INFO"},
		{draw: 0.9, wantErr: ErrTaskFailed, wantCode: 1, wantLog: "Task failed", level: "level=ERROR"},
		{draw: 0.4, wantErr: ErrTaskFailed, wantCode: 1, wantLog: "Task failed", level: "level=ERROR"},
		{draw: 0.0, wantErr: nil, wantCode: 0, wantLog: "Task succeeded", level: "level=INFO"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		task := NewFlakyTask(newTestLogger(&buf), fixedSource(tc.draw), DefaultThreshold)
		err := task.Run()
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("draw %v: got err %v, want %v", tc.draw, err, tc.wantErr)
		}
		if code := ExitCode(err); code != tc.wantCode {
			t.Fatalf("draw %v: exit code %d, want %d", tc.draw, code, tc.wantCode)
		}
		out := buf.String()
		if strings.Count(out, "\n") != 1 {
			t.Fatalf("draw %v: expected exactly one log line, got %q", tc.draw, out)
		}
		if !strings.Contains(out, tc.wantLog) || !strings.Contains(out, tc.level) {
			t.Fatalf("draw %v: unexpected log %q", tc.draw, out)
		}
		if task.LastDraw() != tc.draw {
			t.Fatalf("draw %v: LastDraw = %v", tc.draw, task.LastDraw())
		}
	}
}

func TestFlakyTaskSuccessRateConverges(t *testing.T) {
	const runs = 10000
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	task := NewFlakyTask(logger, NewSeededSource(42), DefaultThreshold)

	succeeded := 0
	for i := 0; i < runs; i++ {
		code := ExitCode(task.Run())
		if code != 0 && code != 1 {
			t.Fatalf("exit code %d outside {0, 1}", code)
		}
		if code == 0 {
			succeeded++
		}
	}
	frac := float64(succeeded) / runs
	if math.Abs(frac-DefaultThreshold) > 0.03 {
		t.Fatalf("success fraction %.4f too far from %.2f", frac, DefaultThreshold)
	}
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	a, b := NewSeededSource(7), NewSeededSource(7)
	for i := 0; i < 5; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestNewFlakyTaskDefaults(t *testing.T) {
	task := NewFlakyTask(nil, nil, DefaultThreshold)
	var _ Executor = task
	if task.Name() != "flaky" {
		t.Fatalf("unexpected name %q", task.Name())
	}
	_ = task.Run()
	if d := task.LastDraw(); d < 0 || d >= 1 {
		t.Fatalf("draw %v outside [0, 1)", d)
	}
}
