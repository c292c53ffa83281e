package board

import (
	"math"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

// Rect is an axis-aligned rectangle in screen coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) corners() [4][2]float64 {
	return [4][2]float64{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X, r.Y + r.Height},
		{r.X + r.Width, r.Y + r.Height},
	}
}

func (r Rect) intersects(o Rect) bool {
	return r.X <= o.X+o.Width && o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

type dropZone struct {
	target models.DropTarget
	rect   *Rect
	seq    int
}

// DropResult describes what a drop did. Applied is false when the drop had
// no effect: no hover target, an unrecognized target, or a task that was
// already in the target bucket.
type DropResult struct {
	Target  *models.DropTarget
	Applied bool
	Task    *models.Task
}

// RegisterDropZone decodes a zone identifier once and remembers the zone
// for drag-over resolution. Registering an existing id replaces its
// rectangle and keeps its registration order. rect may be nil for zones
// that are only hovered by id.
func (b *Board) RegisterDropZone(id string, rect *Rect) models.DropTarget {
	b.mu.Lock()
	defer b.mu.Unlock()

	if z, ok := b.zones[id]; ok {
		z.rect = cloneRect(rect)
		return z.target
	}

	b.zoneSeq++
	z := &dropZone{
		target: models.ParseDropTarget(id),
		rect:   cloneRect(rect),
		seq:    b.zoneSeq,
	}
	b.zones[id] = z
	b.logger.Debug().
		Str("zone", id).
		Str("kind", z.target.Kind.String()).
		Msg("registered drop zone")
	return z.target
}

func (b *Board) UnregisterDropZone(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.zones, id)
	if b.session != nil && b.session.Hover != nil && b.session.Hover.Raw == id {
		b.session.Hover = nil
	}
}

// StartDrag opens a drag session for a task. Only one session may be open
// at a time.
func (b *Board) StartDrag(taskID string) (models.DragSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session != nil {
		b.logger.Warn().
			Str("task_id", taskID).
			Str("dragging", b.session.TaskID).
			Msg("drag already in progress")
		return models.DragSession{}, ErrDragInProgress
	}
	if _, ok := b.tasks[taskID]; !ok {
		return models.DragSession{}, taskNotFound(taskID)
	}

	b.session = &models.DragSession{
		TaskID:    taskID,
		StartedAt: b.now(),
	}
	b.logger.Debug().
		Str("task_id", taskID).
		Msg("drag started")
	return *b.session, nil
}

// DragOver records the zone under the pointer. An empty id clears the hover
// target. Ids that were never registered hover as unknown targets, so
// dropping on them has no effect.
func (b *Board) DragOver(zoneID string) (models.DragSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return models.DragSession{}, ErrNoDrag
	}

	switch z, ok := b.zones[zoneID]; {
	case zoneID == "":
		b.session.Hover = nil
	case ok:
		target := z.target
		b.session.Hover = &target
	default:
		b.session.Hover = &models.DropTarget{Kind: models.TargetUnknown, Raw: zoneID}
	}
	return b.snapshotSession(), nil
}

// DragMove resolves the hover target from the dragged item's rectangle
// using closest-corners collision detection over the zones it intersects.
// Ties go to the zone registered first.
func (b *Board) DragMove(active Rect) (models.DragSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return models.DragSession{}, ErrNoDrag
	}

	zones := make([]*dropZone, 0, len(b.zones))
	for _, z := range b.zones {
		zones = append(zones, z)
	}
	if z := closestCorners(active, zones); z != nil {
		target := z.target
		b.session.Hover = &target
	} else {
		b.session.Hover = nil
	}
	return b.snapshotSession(), nil
}

// EndDrag drops the dragged task on the current hover target:
//
//   - column: the task moves to that column, without a category;
//   - category: the task moves to the category's column, or keeps its own
//     column when the target names none, and takes the category;
//   - person: the task is delegated to that person.
//
// Anything else leaves the task where it was. The session is closed in
// every case, including when the assignment fails.
func (b *Board) EndDrag() (DropResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return DropResult{}, ErrNoDrag
	}
	session := b.session
	b.session = nil

	res := DropResult{Target: session.Hover}
	t, ok := b.tasks[session.TaskID]
	if !ok {
		return res, taskNotFound(session.TaskID)
	}
	res.Task = t.Clone()

	if session.Hover == nil {
		b.logger.Debug().
			Str("task_id", t.ID).
			Msg("dropped outside any zone")
		return res, nil
	}

	var (
		changed bool
		err     error
	)
	target := session.Hover
	switch target.Kind {
	case models.TargetColumn:
		changed, err = b.assignLocked(t, models.Status(target.ID), "", "")
	case models.TargetCategory:
		column := target.Column
		if column == "" {
			column = t.Status
		}
		changed, err = b.assignLocked(t, column, target.ID, t.PersonID)
	case models.TargetPerson:
		changed, err = b.assignLocked(t, models.StatusDelegated, "", target.ID)
	default:
		b.logger.Debug().
			Str("task_id", t.ID).
			Str("zone", target.Raw).
			Msg("dropped on unrecognized zone")
		return res, nil
	}
	if err != nil {
		return res, err
	}

	res.Applied = changed
	res.Task = t.Clone()
	return res, nil
}

// CancelDrag closes the session without touching the task.
func (b *Board) CancelDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session != nil {
		b.logger.Debug().
			Str("task_id", b.session.TaskID).
			Msg("drag cancelled")
	}
	b.session = nil
}

// DragState returns the open session, if any.
func (b *Board) DragState() (models.DragSession, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return models.DragSession{}, false
	}
	return b.snapshotSession(), true
}

func (b *Board) snapshotSession() models.DragSession {
	s := *b.session
	if s.Hover != nil {
		hover := *s.Hover
		s.Hover = &hover
	}
	return s
}

// closestCorners picks, among the zones intersecting active, the one whose
// corners are on average nearest to active's corners.
func closestCorners(active Rect, zones []*dropZone) *dropZone {
	var (
		best     *dropZone
		bestDist = math.Inf(1)
	)
	ac := active.corners()
	for _, z := range zones {
		if z.rect == nil || !active.intersects(*z.rect) {
			continue
		}

		zc := z.rect.corners()
		var dist float64
		for i := range ac {
			dist += math.Hypot(ac[i][0]-zc[i][0], ac[i][1]-zc[i][1])
		}
		dist /= 4

		if dist < bestDist || (dist == bestDist && z.seq < best.seq) {
			best, bestDist = z, dist
		}
	}
	return best
}

func cloneRect(r *Rect) *Rect {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
