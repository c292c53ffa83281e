package models

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ViewToday = "today"
	ViewWeek  = "week"
)

// Column is one top-level grouping of a view. Its ID is the task status the
// column holds.
type Column struct {
	ID            Status   `yaml:"id" json:"id"`
	Title         string   `yaml:"title" json:"title"`
	Color         string   `yaml:"color" json:"color"`
	HasCategories bool     `yaml:"has_categories" json:"has_categories"`
	HasPeople     bool     `yaml:"has_people" json:"has_people"`
	Categories    []string `yaml:"categories,omitempty" json:"categories,omitempty"`
}

type View struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []Column `yaml:"columns" json:"columns"`
}

// Column looks up a column by id.
func (v *View) Column(id Status) (Column, bool) {
	for _, c := range v.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

type Views struct {
	Default string `yaml:"default"`
	Views   []View `yaml:"views"`
}

func (vs *Views) Get(name string) (*View, bool) {
	if name == "" {
		name = vs.Default
	}
	for i := range vs.Views {
		if vs.Views[i].Name == name {
			return &vs.Views[i], true
		}
	}
	return nil, false
}

var (
	errNoViews          = errors.New("no views configured")
	errEmptyViewName    = errors.New("view name is empty")
	errEmptyColumnID    = errors.New("column id is empty")
	errUnknownDefault   = errors.New("default view is not configured")
	errConflictingFlags = errors.New("column cannot have both categories and people")
)

func (vs *Views) Validate() error {
	if len(vs.Views) == 0 {
		return errNoViews
	}
	names := make(map[string]struct{}, len(vs.Views))
	for _, v := range vs.Views {
		if v.Name == "" {
			return errEmptyViewName
		}
		if _, dup := names[v.Name]; dup {
			return fmt.Errorf("duplicate view %q", v.Name)
		}
		names[v.Name] = struct{}{}

		ids := make(map[Status]struct{}, len(v.Columns))
		for _, c := range v.Columns {
			if c.ID == "" {
				return fmt.Errorf("view %q: %w", v.Name, errEmptyColumnID)
			}
			if _, dup := ids[c.ID]; dup {
				return fmt.Errorf("view %q: duplicate column %q", v.Name, c.ID)
			}
			ids[c.ID] = struct{}{}
			if c.HasCategories && c.HasPeople {
				return fmt.Errorf("view %q column %q: %w", v.Name, c.ID, errConflictingFlags)
			}
		}
	}
	if vs.Default != "" {
		if _, ok := names[vs.Default]; !ok {
			return errUnknownDefault
		}
	}
	return nil
}

// LoadViews reads view configuration from a YAML file.
func LoadViews(path string) (*Views, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read views file: %w", err)
	}

	vs := new(Views)
	err = yaml.Unmarshal(data, vs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse views file: %w", err)
	}
	if vs.Default == "" && len(vs.Views) > 0 {
		vs.Default = vs.Views[0].Name
	}

	err = vs.Validate()
	if err != nil {
		return nil, err
	}
	return vs, nil
}

func DefaultViews() *Views {
	uncategorized := Column{ID: StatusUncategorized, Title: "Uncategorized", Color: "#9ca3af"}
	delegated := Column{ID: StatusDelegated, Title: "Follow-up", Color: "#f59e0b", HasPeople: true}
	completed := Column{ID: StatusCompleted, Title: "Completed", Color: "#10b981"}

	return &Views{
		Default: ViewToday,
		Views: []View{
			{
				Name: ViewToday,
				Columns: []Column{
					uncategorized,
					{
						ID:            StatusToday,
						Title:         "Today",
						Color:         "#3b82f6",
						HasCategories: true,
						Categories:    []string{"standing", "focus", "quick"},
					},
					delegated,
					completed,
				},
			},
			{
				Name: ViewWeek,
				Columns: []Column{
					uncategorized,
					{
						ID:            StatusThisWeek,
						Title:         "This Week",
						Color:         "#6366f1",
						HasCategories: true,
						Categories:    []string{"standing", "focus", "quick"},
					},
					{ID: StatusLater, Title: "Later", Color: "#64748b"},
					delegated,
					completed,
				},
			},
		},
	}
}
