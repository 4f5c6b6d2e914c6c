package main

import (
	"fmt"
	"strings"
	"time"
)

// taskFilter is the predicate a view hands to the task store. Nil
// pointer fields mean "don't care".
type taskFilter struct {
	completed     *bool
	isNote        *bool
	category      string
	dueOnOrBefore *time.Time // inclusive bound (the home window)
	dueBefore     *time.Time // strict bound (past due)
	orderByDue    bool
}

func boolPtr(b bool) *bool { return &b }

// viewFilter maps a view selector to its filter. Views are mutually
// exclusive branches:
//
//	home      open dated tasks due within the next 7 days
//	all       every open dated task
//	pastdue   open dated tasks due before yesterday
//	completed everything completed, in insertion order
//	notes     open notes
//	<category> open tasks in that category, notes included
//
// A note keeps its category, so the per-category view is the one listing
// besides "notes" that still reaches it.
func viewFilter(view string, now time.Time) (taskFilter, error) {
	switch view {
	case "", "home":
		weekFromNow := now.AddDate(0, 0, 7)
		return taskFilter{
			completed:     boolPtr(false),
			isNote:        boolPtr(false),
			dueOnOrBefore: &weekFromNow,
			orderByDue:    true,
		}, nil
	case "all":
		return taskFilter{
			completed:  boolPtr(false),
			isNote:     boolPtr(false),
			orderByDue: true,
		}, nil
	case "pastdue":
		yesterday := now.AddDate(0, 0, -1)
		return taskFilter{
			completed:  boolPtr(false),
			isNote:     boolPtr(false),
			dueBefore:  &yesterday,
			orderByDue: true,
		}, nil
	case "completed":
		return taskFilter{
			completed: boolPtr(true),
		}, nil
	case "notes":
		return taskFilter{
			completed: boolPtr(false),
			isNote:    boolPtr(true),
		}, nil
	default:
		if !isValidCategory(view) {
			return taskFilter{}, fmt.Errorf("unknown view %q", view)
		}
		return taskFilter{
			completed:  boolPtr(false),
			category:   view,
			orderByDue: true,
		}, nil
	}
}

// buildTaskQuery renders the filter as a SQL statement scoped to the
// owner. A due comparison never matches a NULL due date, which is what
// keeps undated tasks and notes out of the date-windowed views.
func buildTaskQuery(ownerID int, f taskFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT id, created_at, user_id, title, content, due, category, completed, completed_at, is_note
			  FROM tasks
			  WHERE user_id = $1`)
	args := []any{ownerID}
	if f.completed != nil {
		args = append(args, *f.completed)
		fmt.Fprintf(&b, " AND completed = $%d", len(args))
	}
	if f.isNote != nil {
		args = append(args, *f.isNote)
		fmt.Fprintf(&b, " AND is_note = $%d", len(args))
	}
	if f.category != "" {
		args = append(args, f.category)
		fmt.Fprintf(&b, " AND category = $%d", len(args))
	}
	if f.dueOnOrBefore != nil {
		args = append(args, *f.dueOnOrBefore)
		fmt.Fprintf(&b, " AND due <= $%d", len(args))
	}
	if f.dueBefore != nil {
		args = append(args, *f.dueBefore)
		fmt.Fprintf(&b, " AND due < $%d", len(args))
	}
	if f.orderByDue {
		b.WriteString(" ORDER BY due ASC NULLS LAST")
	}
	return b.String(), args
}
