package board

import (
	"errors"
	"testing"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

func registerZones(b *Board, ids ...string) {
	for _, id := range ids {
		b.RegisterDropZone(id, nil)
	}
}

func drop(t *testing.T, b *Board, taskID, zoneID string) DropResult {
	t.Helper()

	if _, err := b.StartDrag(taskID); err != nil {
		t.Fatalf("StartDrag() error = %v", err)
	}
	if _, err := b.DragOver(zoneID); err != nil {
		t.Fatalf("DragOver(%q) error = %v", zoneID, err)
	}
	res, err := b.EndDrag()
	if err != nil {
		t.Fatalf("EndDrag() error = %v", err)
	}
	return res
}

func TestDragScenario(t *testing.T) {
	b, _, clock := newTestBoard(t)
	alice := mustAddPerson(t, b, "Alice")
	task := mustAddTask(t, b, AddTaskParams{Title: "write report"})
	if task.Status != models.StatusUncategorized {
		t.Fatalf("Status = %q, want uncategorized", task.Status)
	}

	standing := models.CategoryTarget(models.StatusToday, "standing")
	person := models.PersonTarget(alice.ID)
	registerZones(b, standing.Raw, person.Raw)

	res := drop(t, b, task.ID, standing.Raw)
	if !res.Applied {
		t.Error("drop on category was not applied")
	}
	got := mustTask(t, b, task.ID)
	if got.Status != models.StatusToday || got.Category != "standing" {
		t.Fatalf("after category drop: status %q category %q, want today/standing", got.Status, got.Category)
	}

	drop(t, b, task.ID, person.Raw)
	got = mustTask(t, b, task.ID)
	if got.Status != models.StatusDelegated || got.PersonID != alice.ID {
		t.Fatalf("after person drop: status %q person %q, want delegated/%s", got.Status, got.PersonID, alice.ID)
	}

	if _, err := b.StartTimer(task.ID); err != nil {
		t.Fatal(err)
	}
	clock.Advance(25 * time.Minute)
	got, err := b.StopTimer(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TimeEntries) != 1 {
		t.Fatalf("entries = %+v, want one", got.TimeEntries)
	}
	if e := got.TimeEntries[0]; e.IsActive || e.End == nil || !e.End.After(e.Start) {
		t.Errorf("entry = %+v, want closed with end after start", e)
	}

	got, err = b.Transition(task.ID, models.StatusCompleted, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt is nil after completion")
	}
}

func TestDropOnColumnClearsCategory(t *testing.T) {
	b, _, _ := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{Status: models.StatusToday, Category: "focus"})

	completed := models.ColumnTarget(models.StatusCompleted)
	today := models.ColumnTarget(models.StatusToday)
	registerZones(b, completed.Raw, today.Raw)

	drop(t, b, task.ID, completed.Raw)
	drop(t, b, task.ID, today.Raw)

	got := mustTask(t, b, task.ID)
	if got.Status != models.StatusToday || got.Category != "" {
		t.Errorf("status %q category %q, want today without category", got.Status, got.Category)
	}
}

func TestDropOnBareCategoryKeepsColumn(t *testing.T) {
	b, _, _ := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{Status: models.StatusToday, Category: "focus"})

	quick := models.ParseDropTarget("category:quick")
	registerZones(b, quick.Raw)

	drop(t, b, task.ID, quick.Raw)
	got := mustTask(t, b, task.ID)
	if got.Status != models.StatusToday || got.Category != "quick" {
		t.Errorf("status %q category %q, want today/quick", got.Status, got.Category)
	}
}

func TestDropWithoutEffect(t *testing.T) {
	tests := []struct {
		name     string
		register []string
		hover    string
	}{
		{name: "unrecognized prefix", register: []string{"lane:42"}, hover: "lane:42"},
		{name: "empty id", register: []string{"column:"}, hover: "column:"},
		{name: "never registered", hover: "column:completed"},
		{name: "no hover", register: []string{"column:completed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, syncer, _ := newTestBoard(t)
			alice := mustAddPerson(t, b, "Alice")
			task := mustAddTask(t, b, AddTaskParams{Status: models.StatusDelegated, PersonID: alice.ID})
			registerZones(b, tt.register...)
			jobs := len(syncer.jobs)

			res := drop(t, b, task.ID, tt.hover)
			if res.Applied {
				t.Error("Applied = true, want false")
			}

			got := mustTask(t, b, task.ID)
			if got.Status != task.Status || got.Category != task.Category || got.PersonID != task.PersonID {
				t.Errorf("task changed: %+v", got)
			}
			if len(syncer.jobs) != jobs {
				t.Errorf("no-op drop queued %d job(s)", len(syncer.jobs)-jobs)
			}
			if _, ok := b.DragState(); ok {
				t.Error("session still open after drop")
			}
		})
	}
}

func TestDragSessionLifecycle(t *testing.T) {
	b, _, _ := newTestBoard(t)
	first := mustAddTask(t, b, AddTaskParams{})
	second := mustAddTask(t, b, AddTaskParams{})

	if _, err := b.DragOver("column:today"); !errors.Is(err, ErrNoDrag) {
		t.Errorf("DragOver() without session error = %v, want ErrNoDrag", err)
	}
	if _, err := b.EndDrag(); !errors.Is(err, ErrNoDrag) {
		t.Errorf("EndDrag() without session error = %v, want ErrNoDrag", err)
	}
	if _, err := b.StartDrag("missing"); err == nil {
		t.Error("StartDrag() on missing task returned no error")
	}

	session, err := b.StartDrag(first.ID)
	if err != nil {
		t.Fatalf("StartDrag() error = %v", err)
	}
	if session.TaskID != first.ID || session.Hover != nil {
		t.Errorf("session = %+v", session)
	}

	if _, err = b.StartDrag(second.ID); !errors.Is(err, ErrDragInProgress) {
		t.Errorf("second StartDrag() error = %v, want ErrDragInProgress", err)
	}

	b.RegisterDropZone("column:today", nil)
	session, err = b.DragOver("column:today")
	if err != nil {
		t.Fatal(err)
	}
	if session.Hover == nil || session.Hover.Kind != models.TargetColumn {
		t.Errorf("hover = %+v, want column target", session.Hover)
	}

	session, err = b.DragOver("")
	if err != nil {
		t.Fatal(err)
	}
	if session.Hover != nil {
		t.Errorf("hover = %+v after clearing, want nil", session.Hover)
	}

	b.CancelDrag()
	if _, ok := b.DragState(); ok {
		t.Error("session open after cancel")
	}
	if got := mustTask(t, b, first.ID); got.Status != models.StatusUncategorized {
		t.Errorf("cancel moved the task to %q", got.Status)
	}

	// Deleting the dragged task closes the session.
	if _, err = b.StartDrag(second.ID); err != nil {
		t.Fatal(err)
	}
	if err = b.DeleteTask(second.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.DragState(); ok {
		t.Error("session open after deleting the dragged task")
	}
}

func TestEndDragClosesSessionOnError(t *testing.T) {
	b, _, _ := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})

	ghost := models.PersonTarget("ghost")
	registerZones(b, ghost.Raw)

	if _, err := b.StartDrag(task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := b.DragOver(ghost.Raw); err != nil {
		t.Fatal(err)
	}

	_, err := b.EndDrag()
	var notFoundErr NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("EndDrag() error = %v, want NotFoundError", err)
	}
	if _, ok := b.DragState(); ok {
		t.Error("session still open after failed drop")
	}
	if got := mustTask(t, b, task.ID); got.Status != models.StatusUncategorized {
		t.Errorf("failed drop moved the task to %q", got.Status)
	}
}

func TestUnregisterDropZoneClearsHover(t *testing.T) {
	b, _, _ := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})
	registerZones(b, "column:today")

	if _, err := b.StartDrag(task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := b.DragOver("column:today"); err != nil {
		t.Fatal(err)
	}
	b.UnregisterDropZone("column:today")

	session, _ := b.DragState()
	if session.Hover != nil {
		t.Errorf("hover = %+v, want nil", session.Hover)
	}
}

func TestDragMoveClosestCorners(t *testing.T) {
	b, _, _ := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})

	b.RegisterDropZone("column:today", &Rect{X: 0, Y: 0, Width: 100, Height: 400})
	b.RegisterDropZone("column:later", &Rect{X: 110, Y: 0, Width: 100, Height: 400})
	b.RegisterDropZone("column:completed", &Rect{X: 500, Y: 0, Width: 100, Height: 400})

	if _, err := b.StartDrag(task.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		rect Rect
		want string
	}{
		{name: "inside first", rect: Rect{X: 5, Y: 10, Width: 80, Height: 40}, want: "column:today"},
		{name: "straddling, mostly second", rect: Rect{X: 95, Y: 10, Width: 100, Height: 40}, want: "column:later"},
		{name: "outside every zone", rect: Rect{X: 300, Y: 10, Width: 80, Height: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := b.DragMove(tt.rect)
			if err != nil {
				t.Fatalf("DragMove() error = %v", err)
			}
			var got string
			if session.Hover != nil {
				got = session.Hover.Raw
			}
			if got != tt.want {
				t.Errorf("hover = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDragMoveTieGoesToFirstRegistered(t *testing.T) {
	b, _, _ := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})

	zone := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	b.RegisterDropZone("column:later", &zone)
	b.RegisterDropZone("column:today", &zone)

	if _, err := b.StartDrag(task.ID); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		session, err := b.DragMove(Rect{X: 10, Y: 10, Width: 50, Height: 50})
		if err != nil {
			t.Fatal(err)
		}
		if session.Hover == nil || session.Hover.Raw != "column:later" {
			t.Fatalf("hover = %+v, want column:later", session.Hover)
		}
	}
}
