// Package board holds the in-memory task board: bucket assignment, the
// status state machine, drag-and-drop reconciliation and time tracking.
//
// A Board is the single owner of task state. Every operation runs under
// one lock and mutates memory synchronously; persistence is handed off to a
// Syncer and never rolls local state back.
package board

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

// Syncer receives a snapshot of every change for background persistence.
type Syncer interface {
	Enqueue(job persist.Job)
}

type Option func(*Board)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(b *Board) {
		b.newID = newID
	}
}

type Board struct {
	mu     sync.Mutex
	logger zerolog.Logger
	views  *models.Views
	syncer Syncer
	now    func() time.Time
	newID  func() (string, error)

	tasks    map[string]*models.Task
	projects map[string]*models.Project
	people   map[string]*models.Person

	zones   map[string]*dropZone
	zoneSeq int
	session *models.DragSession
}

// New creates an empty board. syncer may be nil, in which case changes are
// kept in memory only.
func New(logger zerolog.Logger, views *models.Views, syncer Syncer, opts ...Option) *Board {
	if views == nil {
		views = models.DefaultViews()
	}

	b := &Board{
		logger:   logger,
		views:    views,
		syncer:   syncer,
		now:      time.Now,
		newID:    newUUID,
		tasks:    make(map[string]*models.Task),
		projects: make(map[string]*models.Project),
		people:   make(map[string]*models.Person),
		zones:    make(map[string]*dropZone),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Now returns the board's current time.
func (b *Board) Now() time.Time {
	return b.now()
}

// Views returns the view configuration.
func (b *Board) Views() models.Views {
	b.mu.Lock()
	defer b.mu.Unlock()

	vs := models.Views{Default: b.views.Default, Views: make([]models.View, len(b.views.Views))}
	for i, v := range b.views.Views {
		vs.Views[i] = models.View{
			Name:    v.Name,
			Columns: append([]models.Column(nil), v.Columns...),
		}
	}
	return vs
}

// AddColumn appends a column to a view.
func (b *Board) AddColumn(viewName string, col models.Column) (models.Column, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	view, ok := b.views.Get(viewName)
	if !ok {
		return models.Column{}, NotFoundError{Kind: "view", ID: viewName}
	}
	if col.ID == "" {
		return models.Column{}, ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if col.Title == "" {
		return models.Column{}, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if col.HasCategories && col.HasPeople {
		return models.Column{}, ValidationError{Field: "has_people", Reason: "column already has categories"}
	}
	if _, exists := view.Column(col.ID); exists {
		return models.Column{}, ValidationError{Field: "id", Reason: "column already exists"}
	}
	if existing, exists := b.column(col.ID); exists &&
		(existing.HasCategories != col.HasCategories || existing.HasPeople != col.HasPeople) {
		return models.Column{}, ValidationError{Field: "id", Reason: "column is configured differently in another view"}
	}

	view.Columns = append(view.Columns, col)
	b.publish(persist.Job{Op: persist.OpSaveColumn, ID: string(col.ID), View: view.Name, Column: &col})
	b.logger.Info().
		Str("view", view.Name).
		Str("column", string(col.ID)).
		Msg("added column")
	return col, nil
}

// column finds the configuration for a bucket. The default view is searched
// first. Canonical statuses missing from every view are plain columns
// without sub-buckets, except delegated which always has people.
func (b *Board) column(id models.Status) (models.Column, bool) {
	if v, ok := b.views.Get(""); ok {
		if c, ok := v.Column(id); ok {
			return c, true
		}
	}
	for i := range b.views.Views {
		if c, ok := b.views.Views[i].Column(id); ok {
			return c, true
		}
	}
	if models.IsCanonicalStatus(id) {
		return models.Column{
			ID:        id,
			Title:     string(id),
			HasPeople: id == models.StatusDelegated,
		}, true
	}
	return models.Column{}, false
}

func (b *Board) publish(job persist.Job) {
	if b.syncer == nil {
		return
	}
	b.syncer.Enqueue(job)
}
