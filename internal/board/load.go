package board

import (
	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

// Load replaces the board's contents with a snapshot read from the store.
// Stored tasks that break the board's invariants are repaired and the
// repaired copies are queued for saving.
func (b *Board) Load(snap persist.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, rec := range snap.Columns {
		view, ok := b.views.Get(rec.View)
		if !ok {
			b.logger.Warn().
				Str("view", rec.View).
				Str("column", string(rec.Column.ID)).
				Msg("stored column references unknown view")
			continue
		}
		if _, exists := view.Column(rec.Column.ID); exists {
			continue
		}
		view.Columns = append(view.Columns, rec.Column)
	}

	b.people = make(map[string]*models.Person, len(snap.People))
	for _, p := range snap.People {
		b.people[p.ID] = p.Clone()
	}
	b.projects = make(map[string]*models.Project, len(snap.Projects))
	for _, p := range snap.Projects {
		b.projects[p.ID] = p.Clone()
	}

	b.tasks = make(map[string]*models.Task, len(snap.Tasks))
	b.session = nil
	var repaired int
	for _, stored := range snap.Tasks {
		t := stored.Clone()
		if b.repair(t) {
			repaired++
			b.publish(persist.Job{Op: persist.OpSaveTask, ID: t.ID, Task: t.Clone()})
		}
		b.tasks[t.ID] = t
	}

	b.logger.Info().
		Int("tasks", len(b.tasks)).
		Int("projects", len(b.projects)).
		Int("people", len(b.people)).
		Int("repaired", repaired).
		Msg("loaded board")
}

// repair brings a stored task back in line with the board's invariants and
// reports whether anything changed.
func (b *Board) repair(t *models.Task) bool {
	var changed bool
	now := b.now()

	col, ok := b.column(t.Status)
	if !ok {
		b.logger.Warn().
			Str("task_id", t.ID).
			Str("status", string(t.Status)).
			Msg("unknown stored status")
		t.Status = models.StatusUncategorized
		col, _ = b.column(t.Status)
		changed = true
	}

	if t.Status == models.StatusDelegated && t.PersonID == "" {
		b.logger.Warn().
			Str("task_id", t.ID).
			Msg("delegated task without person")
		t.Status = models.StatusUncategorized
		col, _ = b.column(t.Status)
		changed = true
	}
	if !col.HasPeople && t.PersonID != "" {
		t.PersonID = ""
		changed = true
	}
	if !col.HasCategories && t.Category != "" {
		t.Category = ""
		changed = true
	}

	switch {
	case t.Status == models.StatusCompleted && t.CompletedAt == nil:
		completedAt := t.UpdatedAt
		t.CompletedAt = &completedAt
		changed = true
	case t.Status != models.StatusCompleted && t.CompletedAt != nil:
		t.CompletedAt = nil
		changed = true
	}

	// Only the latest active entry keeps running. Earlier ones are closed
	// where the next entry starts so no tracked time is lost.
	last := -1
	for i := range t.TimeEntries {
		if t.TimeEntries[i].IsActive {
			last = i
		}
	}
	for i := range t.TimeEntries {
		e := &t.TimeEntries[i]
		if !e.IsActive || i == last {
			continue
		}
		end := now
		if i+1 < len(t.TimeEntries) {
			end = t.TimeEntries[i+1].Start
		}
		if end.Before(e.Start) {
			end = e.Start
		}
		e.End = &end
		e.IsActive = false
		changed = true
	}
	if last >= 0 && t.TimeEntries[last].End != nil {
		t.TimeEntries[last].End = nil
		changed = true
	}
	if t.Status == models.StatusCompleted && stopTimer(t, *t.CompletedAt) {
		changed = true
	}

	if changed {
		b.logger.Warn().
			Str("task_id", t.ID).
			Msg("repaired stored task")
	}
	return changed
}
