package board

import (
	"math"
	"testing"
	"time"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

func TestTimerStartStop(t *testing.T) {
	b, syncer, clock := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})

	started, err := b.StartTimer(task.ID)
	if err != nil {
		t.Fatalf("StartTimer() error = %v", err)
	}
	if len(started.TimeEntries) != 1 || !started.TimeEntries[0].IsActive {
		t.Fatalf("entries = %+v, want one active entry", started.TimeEntries)
	}

	jobs := len(syncer.jobs)
	again, err := b.StartTimer(task.ID)
	if err != nil {
		t.Fatalf("second StartTimer() error = %v", err)
	}
	if len(again.TimeEntries) != 1 {
		t.Errorf("second start added an entry: %+v", again.TimeEntries)
	}
	if len(syncer.jobs) != jobs {
		t.Error("no-op start queued a job")
	}

	clock.Advance(90 * time.Minute)
	stopped, err := b.StopTimer(task.ID)
	if err != nil {
		t.Fatalf("StopTimer() error = %v", err)
	}
	e := stopped.TimeEntries[0]
	if e.IsActive || e.End == nil || !e.End.After(e.Start) {
		t.Errorf("entry = %+v, want closed with end after start", e)
	}
	if got := stopped.ActualHours(clock.Now()); got != 1.5 {
		t.Errorf("ActualHours = %v, want 1.5", got)
	}

	jobs = len(syncer.jobs)
	if _, err = b.StopTimer(task.ID); err != nil {
		t.Fatalf("second StopTimer() error = %v", err)
	}
	if len(syncer.jobs) != jobs {
		t.Error("no-op stop queued a job")
	}

	// A new start opens a second entry with the next id.
	restarted, err := b.StartTimer(task.ID)
	if err != nil {
		t.Fatalf("StartTimer() error = %v", err)
	}
	if n := len(restarted.TimeEntries); n != 2 || restarted.TimeEntries[1].ID != 2 {
		t.Errorf("entries = %+v, want a second entry with id 2", restarted.TimeEntries)
	}
}

func TestToggleTimer(t *testing.T) {
	b, _, clock := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})

	for i := 0; i < 5; i++ {
		toggled, err := b.ToggleTimer(task.ID)
		if err != nil {
			t.Fatalf("ToggleTimer() error = %v", err)
		}
		wantActive := i%2 == 0
		if got := toggled.ActiveEntry() >= 0; got != wantActive {
			t.Errorf("toggle %d: tracking = %v, want %v", i, got, wantActive)
		}
		if n := activeEntries(toggled); n > 1 {
			t.Fatalf("toggle %d: %d active entries", i, n)
		}
		clock.Advance(10 * time.Minute)
	}
}

func TestActualHoursMonotonic(t *testing.T) {
	b, _, clock := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})

	// One closed 30 minute entry, then a running one.
	if _, err := b.StartTimer(task.ID); err != nil {
		t.Fatal(err)
	}
	clock.Advance(30 * time.Minute)
	if _, err := b.StopTimer(task.ID); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Hour)
	if _, err := b.StartTimer(task.ID); err != nil {
		t.Fatal(err)
	}
	runningSince := clock.Now()

	prev := -1.0
	for i := 0; i < 6; i++ {
		clock.Advance(15 * time.Minute)

		got, err := b.ActualHours(task.ID)
		if err != nil {
			t.Fatalf("ActualHours() error = %v", err)
		}
		want := 0.5 + clock.Now().Sub(runningSince).Hours()
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("sample %d: ActualHours = %v, want %v", i, got, want)
		}
		if got <= prev {
			t.Errorf("sample %d: ActualHours = %v, not above %v", i, got, prev)
		}
		prev = got
	}

	if _, err := b.ActualHours("missing"); err == nil {
		t.Error("ActualHours() on missing task returned no error")
	}
}

func TestCompletingStopsTimer(t *testing.T) {
	b, _, clock := newTestBoard(t)
	task := mustAddTask(t, b, AddTaskParams{})

	if _, err := b.StartTimer(task.ID); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Hour)

	done, err := b.Transition(task.ID, models.StatusCompleted, "")
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if done.ActiveEntry() >= 0 {
		t.Error("timer still running after completion")
	}
	if done.CompletedAt == nil {
		t.Fatal("CompletedAt is nil")
	}
	if end := done.TimeEntries[0].End; end == nil || !end.Equal(*done.CompletedAt) {
		t.Errorf("entry end = %v, want %v", end, done.CompletedAt)
	}

	clock.Advance(time.Hour)
	hours, err := b.ActualHours(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if hours != 1 {
		t.Errorf("ActualHours = %v after completion, want 1", hours)
	}
}

func TestStopTimerClampsEnd(t *testing.T) {
	task := models.Task{
		TimeEntries: []models.TimeEntry{{ID: 1, Start: epoch, IsActive: true}},
	}

	if !stopTimer(&task, epoch.Add(-time.Minute)) {
		t.Fatal("stopTimer() = false, want true")
	}
	if end := task.TimeEntries[0].End; end == nil || !end.Equal(epoch) {
		t.Errorf("End = %v, want %v", end, epoch)
	}
}

func TestTimerMissingTask(t *testing.T) {
	b, _, _ := newTestBoard(t)

	for name, fn := range map[string]func(string) (*models.Task, error){
		"start":  b.StartTimer,
		"stop":   b.StopTimer,
		"toggle": b.ToggleTimer,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := fn("missing"); err == nil {
				t.Error("error = nil, want NotFoundError")
			}
		})
	}
}
