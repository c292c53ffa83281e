package board

import (
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
)

// Bucket is the (column, sub-bucket) pair a task occupies. At most one of
// Category and PersonID is set.
type Bucket struct {
	Column   models.Status
	Category string
	PersonID string
}

// BucketOf maps a task to its bucket within view. It reports false when the
// view has no column for the task's status.
func BucketOf(t *models.Task, view *models.View) (Bucket, bool) {
	col, ok := view.Column(t.Status)
	if !ok {
		return Bucket{}, false
	}

	b := Bucket{Column: col.ID}
	switch {
	case col.HasCategories:
		b.Category = t.Category
	case col.HasPeople:
		b.PersonID = t.PersonID
	}
	return b, true
}

// assign places t in column col. The category survives only if the column
// has categories, and the person only if the column has people lanes, so a
// task never keeps a sub-bucket from its previous column. Assigning a task
// to the bucket it is already in changes nothing, UpdatedAt included.
func assign(t *models.Task, col models.Column, category, personID string, now time.Time) (bool, error) {
	if !col.HasCategories {
		category = ""
	}
	if !col.HasPeople {
		personID = ""
	}

	if t.Status == col.ID && t.Category == category && t.PersonID == personID {
		return false, nil
	}

	next := t.Clone()
	err := transition(next, col.ID, personID, now)
	if err != nil {
		return false, err
	}
	next.Category = category
	next.PersonID = personID
	next.UpdatedAt = now

	*t = *next
	return true, nil
}

// Assign moves a task into a bucket. bucket selects the column and so the
// status. category is ignored for columns without categories and personID
// for columns without people lanes. The delegated column requires a person.
func (b *Board) Assign(taskID string, bucket models.Status, category, personID string) (*models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		b.logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
		return nil, taskNotFound(taskID)
	}

	_, err := b.assignLocked(t, bucket, category, personID)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

// Transition changes a task's status. The category is kept when the new
// column has categories and dropped otherwise.
func (b *Board) Transition(taskID string, to models.Status, personID string) (*models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tasks[taskID]
	if !ok {
		b.logger.Warn().
			Str("task_id", taskID).
			Msg("task not found")
		return nil, taskNotFound(taskID)
	}

	_, err := b.assignLocked(t, to, t.Category, personID)
	if err != nil {
		return nil, err
	}
	return t.Clone(), nil
}

func (b *Board) assignLocked(t *models.Task, bucket models.Status, category, personID string) (bool, error) {
	col, ok := b.column(bucket)
	if !ok {
		b.logger.Error().
			Str("task_id", t.ID).
			Str("bucket", string(bucket)).
			Msg("unknown bucket")
		return false, ValidationError{Field: "bucket", Reason: "unknown column " + string(bucket)}
	}

	if col.HasPeople && personID != "" {
		if _, ok = b.people[personID]; !ok {
			b.logger.Error().
				Str("task_id", t.ID).
				Str("person_id", personID).
				Msg("person not found")
			return false, NotFoundError{Kind: "person", ID: personID}
		}
	}

	from := t.Status
	changed, err := assign(t, col, category, personID, b.now())
	if err != nil {
		b.logger.Error().
			Err(err).
			Str("task_id", t.ID).
			Msg("failed to assign task")
		return false, err
	}
	if !changed {
		b.logger.Debug().
			Str("task_id", t.ID).
			Str("bucket", string(bucket)).
			Msg("task already in bucket")
		return false, nil
	}

	b.publish(persist.Job{Op: persist.OpSaveTask, ID: t.ID, Task: t.Clone()})
	b.logger.Info().
		Str("task_id", t.ID).
		Str("from", string(from)).
		Str("to", string(t.Status)).
		Str("category", t.Category).
		Str("person_id", t.PersonID).
		Msg("assigned task")
	return true, nil
}
