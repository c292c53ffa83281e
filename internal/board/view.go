package board

import (
	"slices"

	"github.com/adanyl0v/go-taskboard/internal/models"
)

// SubBucket is a category or person lane inside a column. An empty Key holds
// the tasks without a category or person.
type SubBucket struct {
	Key   string         `json:"key"`
	Tasks []*models.Task `json:"tasks"`
}

type ColumnGroup struct {
	Column  models.Column  `json:"column"`
	Tasks   []*models.Task `json:"tasks"`
	Buckets []SubBucket    `json:"buckets,omitempty"`
}

// GroupByView lays tasks out in the columns of view. Every task lands in
// exactly one column and at most one sub-bucket; tasks whose status the view
// does not show are left out. Configured categories and people come first,
// in their given order, followed by any others found on tasks.
func GroupByView(view *models.View, tasks []*models.Task, people []*models.Person) []ColumnGroup {
	groups := make([]ColumnGroup, len(view.Columns))
	index := make(map[models.Status]int, len(view.Columns))
	for i, col := range view.Columns {
		groups[i] = ColumnGroup{Column: col, Tasks: []*models.Task{}}
		index[col.ID] = i

		var keys []string
		switch {
		case col.HasCategories:
			keys = append(keys, col.Categories...)
		case col.HasPeople:
			for _, p := range people {
				keys = append(keys, p.ID)
			}
		default:
			continue
		}
		for _, k := range keys {
			groups[i].Buckets = append(groups[i].Buckets, SubBucket{Key: k, Tasks: []*models.Task{}})
		}
	}

	for _, t := range tasks {
		bucket, ok := BucketOf(t, view)
		if !ok {
			continue
		}
		g := &groups[index[bucket.Column]]
		g.Tasks = append(g.Tasks, t)
		if !g.Column.HasCategories && !g.Column.HasPeople {
			continue
		}

		key := bucket.Category
		if g.Column.HasPeople {
			key = bucket.PersonID
		}
		i := slices.IndexFunc(g.Buckets, func(sb SubBucket) bool { return sb.Key == key })
		if i < 0 {
			g.Buckets = append(g.Buckets, SubBucket{Key: key})
			i = len(g.Buckets) - 1
		}
		g.Buckets[i].Tasks = append(g.Buckets[i].Tasks, t)
	}
	return groups
}

// Snapshot groups the board's tasks by the named view. An empty name
// selects the default view.
func (b *Board) Snapshot(viewName string) ([]ColumnGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	view, ok := b.views.Get(viewName)
	if !ok {
		return nil, NotFoundError{Kind: "view", ID: viewName}
	}
	return GroupByView(view, b.sortedTasks(nil), b.sortedPeople()), nil
}
