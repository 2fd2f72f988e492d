// Package browse owns the loaded dataset and the browse state transitions.
package browse

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"kuralhub/internal/catalog"
	"kuralhub/internal/dataset"
	"kuralhub/pkg/models"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

var ErrNotReady = errors.New("dataset not ready")

// Snapshot is an immutable view of the loaded dataset.
type Snapshot struct {
	Status    Status
	Err       error
	Source    string
	LoadedAt  time.Time
	Rows      []models.Kural
	Hierarchy catalog.Hierarchy
	Groups    []models.ChapterGroup
	Stats     models.Stats
}

// State holds the dataset and its derived indices. It is written once by
// Load and read concurrently afterwards.
type State struct {
	mu     sync.RWMutex
	snap   Snapshot
	logger *zap.Logger
}

func NewState(logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		snap:   Snapshot{Status: StatusLoading, Groups: []models.ChapterGroup{}},
		logger: logger,
	}
}

// Load reads src and builds the indices. A failure is recorded and
// returned; there is no retry.
func (s *State) Load(ctx context.Context, src dataset.Source) error {
	start := time.Now()
	rows, err := src.Load(ctx)
	if err != nil {
		s.logger.Error("dataset load failed", zap.String("source", src.Name()), zap.Error(err))
		s.mu.Lock()
		s.snap = Snapshot{Status: StatusFailed, Err: err, Source: src.Name(), Groups: []models.ChapterGroup{}}
		s.mu.Unlock()
		return err
	}

	s.SetRows(src.Name(), rows)
	s.logger.Info("dataset loaded",
		zap.String("source", src.Name()),
		zap.Int("kurals", len(rows)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// SetRows installs rows as the ready dataset.
func (s *State) SetRows(source string, rows []models.Kural) {
	groups := catalog.GroupByChapter(rows)
	snap := Snapshot{
		Status:    StatusReady,
		Source:    source,
		LoadedAt:  time.Now().UTC(),
		Rows:      rows,
		Hierarchy: catalog.BuildHierarchy(rows),
		Groups:    groups,
		Stats:     catalog.Stats(rows, groups),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Status
}

// Result is the outcome of applying a filter to the dataset.
type Result struct {
	Filter   catalog.Filter        `json:"filter"`
	Groups   []models.ChapterGroup `json:"groups"`
	Kurals   int                   `json:"kurals"`
	Chapters int                   `json:"chapters"`
	Options  catalog.Options       `json:"options"`
}

// Empty reports whether the result has nothing to show.
func (r Result) Empty() bool { return len(r.Groups) == 0 }

// Apply runs the filter engine over the full dataset.
func (s *State) Apply(f catalog.Filter) (Result, error) {
	snap := s.Snapshot()
	if snap.Status != StatusReady {
		return Result{Filter: f, Groups: []models.ChapterGroup{}}, ErrNotReady
	}

	groups := snap.Groups
	if f.Active() {
		groups = catalog.ApplyFilters(snap.Rows, f)
	}
	kurals, chapters := catalog.Counts(groups)
	return Result{
		Filter:   f,
		Groups:   groups,
		Kurals:   kurals,
		Chapters: chapters,
		Options:  snap.Hierarchy.Options(f),
	}, nil
}
