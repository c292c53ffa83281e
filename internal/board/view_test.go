package board

import (
	"testing"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

func TestGroupByView(t *testing.T) {
	view, _ := models.DefaultViews().Get(models.ViewToday)
	people := []*models.Person{{ID: "p1", Name: "Alice"}, {ID: "p2", Name: "Bob"}}
	tasks := []*models.Task{
		{ID: "t1", Status: models.StatusToday, Category: "focus"},
		{ID: "t2", Status: models.StatusToday},
		{ID: "t3", Status: models.StatusToday, Category: "errands"},
		{ID: "t4", Status: models.StatusDelegated, PersonID: "p2"},
		{ID: "t5", Status: models.StatusLater},
		{ID: "t6", Status: models.StatusUncategorized},
	}

	groups := GroupByView(view, tasks, people)
	if len(groups) != len(view.Columns) {
		t.Fatalf("got %d groups, want %d", len(groups), len(view.Columns))
	}

	byColumn := make(map[models.Status]ColumnGroup, len(groups))
	for _, g := range groups {
		byColumn[g.Column.ID] = g
	}

	today := byColumn[models.StatusToday]
	if len(today.Tasks) != 3 {
		t.Errorf("today has %d tasks, want 3", len(today.Tasks))
	}
	var keys []string
	for _, sb := range today.Buckets {
		keys = append(keys, sb.Key)
	}
	wantKeys := []string{"standing", "focus", "quick", "", "errands"}
	if len(keys) != len(wantKeys) {
		t.Fatalf("today buckets = %q, want %q", keys, wantKeys)
	}
	for i := range keys {
		if keys[i] != wantKeys[i] {
			t.Errorf("bucket %d = %q, want %q", i, keys[i], wantKeys[i])
		}
	}

	delegated := byColumn[models.StatusDelegated]
	if len(delegated.Buckets) != 2 {
		t.Fatalf("delegated buckets = %+v, want one per person", delegated.Buckets)
	}
	if b := delegated.Buckets[1]; b.Key != "p2" || len(b.Tasks) != 1 || b.Tasks[0].ID != "t4" {
		t.Errorf("bob's lane = %+v, want t4", b)
	}
	if len(delegated.Buckets[0].Tasks) != 0 {
		t.Errorf("alice's lane = %+v, want empty", delegated.Buckets[0])
	}

	if n := len(byColumn[models.StatusUncategorized].Tasks); n != 1 {
		t.Errorf("uncategorized has %d tasks, want 1", n)
	}

	// t5 is later, which the today view does not show.
	var total int
	for _, g := range groups {
		total += len(g.Tasks)
	}
	if total != 5 {
		t.Errorf("grouped %d tasks, want 5", total)
	}
}

func TestSnapshot(t *testing.T) {
	b, _, _ := newTestBoard(t)
	mustAddTask(t, b, AddTaskParams{Status: models.StatusLater})

	groups, err := b.Snapshot(models.ViewWeek)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	var found bool
	for _, g := range groups {
		if g.Column.ID == models.StatusLater && len(g.Tasks) == 1 {
			found = true
		}
	}
	if !found {
		t.Error("later task missing from week view")
	}

	if _, err = b.Snapshot("missing"); !isNotFoundError(err) {
		t.Errorf("Snapshot() of unknown view error = %v", err)
	}
}
