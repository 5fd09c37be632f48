package tasks

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeFlaky Type = "FLAKY"
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Task struct {
	ID         string     `json:"id"`
	Type       Type       `json:"type"`
	Status     Status     `json:"status"`
	Draw       *float64   `json:"draw,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Error      string     `json:"error,omitempty"`

	seq uint64
}

// Manager is an in-memory run ledger. Returned tasks are copies.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	seq   uint64
	now   func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		tasks: make(map[string]*Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) Enqueue(typ Type) Task {
	t := &Task{
		ID:        uuid.NewString(),
		Type:      typ,
		Status:    StatusQueued,
		CreatedAt: m.now(),
	}
	m.mu.Lock()
	m.seq++
	t.seq = m.seq
	m.tasks[t.ID] = t
	m.mu.Unlock()
	return *t
}

func (m *Manager) Get(id string) (Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// List returns all tasks, newest first. Tasks created within the same clock
// tick keep their enqueue order.
func (m *Manager) List() []Task {
	m.mu.RLock()
	out := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, *t)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].seq > out[j].seq })
	return out
}

// UpdateStatusRunning sets a task to running and stamps StartedAt if not already set.
func (m *Manager) UpdateStatusRunning(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		now := m.now()
		t.Status = StatusRunning
		if t.StartedAt == nil {
			t.StartedAt = &now
		}
	}
}

// UpdateStatusSucceeded sets a task to succeeded, records its draw and stamps FinishedAt.
func (m *Manager) UpdateStatusSucceeded(id string, draw float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		now := m.now()
		t.Status = StatusSucceeded
		t.Draw = &draw
		t.FinishedAt = &now
		t.Error = ""
	}
}

// UpdateStatusFailed sets a task to failed with an error and stamps FinishedAt.
func (m *Manager) UpdateStatusFailed(id string, draw float64, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		now := m.now()
		t.Status = StatusFailed
		t.Draw = &draw
		t.FinishedAt = &now
		t.Error = errMsg
	}
}
