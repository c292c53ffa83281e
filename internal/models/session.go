package models

import (
	"strings"
	"time"
)

type TargetKind int

const (
	TargetUnknown TargetKind = iota
	TargetColumn
	TargetCategory
	TargetPerson
)

func (k TargetKind) String() string {
	switch k {
	case TargetColumn:
		return "column"
	case TargetCategory:
		return "category"
	case TargetPerson:
		return "person"
	default:
		return "unknown"
	}
}

const (
	columnTargetPrefix   = "column:"
	categoryTargetPrefix = "category:"
	personTargetPrefix   = "person:"
)

// DropTarget is a decoded drop zone identifier: a column, a category inside
// a column, or a person's follow-up lane. ID holds the column status,
// category name or person id depending on Kind; Raw is the identifier the
// zone was registered with. Column is set for category targets registered
// as "category:<column>:<category>" and empty for bare "category:<name>".
type DropTarget struct {
	Kind   TargetKind
	ID     string
	Column Status
	Raw    string
}

func ColumnTarget(id Status) DropTarget {
	return DropTarget{Kind: TargetColumn, ID: string(id), Raw: columnTargetPrefix + string(id)}
}

func CategoryTarget(column Status, category string) DropTarget {
	return DropTarget{
		Kind:   TargetCategory,
		ID:     category,
		Column: column,
		Raw:    categoryTargetPrefix + string(column) + ":" + category,
	}
}

func PersonTarget(personID string) DropTarget {
	return DropTarget{Kind: TargetPerson, ID: personID, Raw: personTargetPrefix + personID}
}

// ParseDropTarget decodes a zone identifier of the form "<kind>:<id>".
// Identifiers without a recognized prefix, or with an empty id, decode to
// TargetUnknown.
func ParseDropTarget(raw string) DropTarget {
	for _, p := range []struct {
		prefix string
		kind   TargetKind
	}{
		{columnTargetPrefix, TargetColumn},
		{categoryTargetPrefix, TargetCategory},
		{personTargetPrefix, TargetPerson},
	} {
		id, ok := strings.CutPrefix(raw, p.prefix)
		if !ok || id == "" {
			continue
		}
		target := DropTarget{Kind: p.kind, ID: id, Raw: raw}
		if p.kind == TargetCategory {
			if column, category, found := strings.Cut(id, ":"); found {
				if column == "" || category == "" {
					return DropTarget{Kind: TargetUnknown, Raw: raw}
				}
				target.Column, target.ID = Status(column), category
			}
		}
		return target
	}
	return DropTarget{Kind: TargetUnknown, Raw: raw}
}

// DragSession is a snapshot of the in-flight drag.
type DragSession struct {
	TaskID    string
	Hover     *DropTarget
	StartedAt time.Time
}
