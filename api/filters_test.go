package main

import (
	"strings"
	"testing"
	"time"
)

var filterNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestViewFilter_Home(t *testing.T) {
	for _, view := range []string{"", "home"} {
		f, err := viewFilter(view, filterNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.completed == nil || *f.completed {
			t.Fatalf("home view must select open tasks")
		}
		if f.isNote == nil || *f.isNote {
			t.Fatalf("home view must exclude notes")
		}
		want := filterNow.AddDate(0, 0, 7)
		if f.dueOnOrBefore == nil || !f.dueOnOrBefore.Equal(want) {
			t.Fatalf("expected 7 day window ending %v, got %v", want, f.dueOnOrBefore)
		}
		if !f.orderByDue {
			t.Fatalf("home view must order by due date")
		}
	}
}

func TestViewFilter_All(t *testing.T) {
	f, err := viewFilter("all", filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.dueOnOrBefore != nil || f.dueBefore != nil {
		t.Fatalf("all view must not filter on due date")
	}
	if f.isNote == nil || *f.isNote {
		t.Fatalf("all view must exclude notes")
	}
}

func TestViewFilter_PastDue(t *testing.T) {
	f, err := viewFilter("pastdue", filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filterNow.AddDate(0, 0, -1)
	if f.dueBefore == nil || !f.dueBefore.Equal(want) {
		t.Fatalf("expected strict bound %v, got %v", want, f.dueBefore)
	}
	if f.dueOnOrBefore != nil {
		t.Fatalf("pastdue must use the strict bound only")
	}
}

func TestViewFilter_Completed(t *testing.T) {
	f, err := viewFilter("completed", filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.completed == nil || !*f.completed {
		t.Fatalf("completed view must select completed tasks")
	}
	if f.isNote != nil || f.category != "" || f.dueOnOrBefore != nil || f.dueBefore != nil {
		t.Fatalf("completed view must not filter further: %+v", f)
	}
	if f.orderByDue {
		t.Fatalf("completed view is not ordered by due date")
	}
}

func TestViewFilter_Notes(t *testing.T) {
	f, err := viewFilter("notes", filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.isNote == nil || !*f.isNote {
		t.Fatalf("notes view must select notes")
	}
	if f.dueOnOrBefore != nil || f.dueBefore != nil {
		t.Fatalf("notes view must not filter on due date")
	}
}

func TestViewFilter_Category_IncludesNotes(t *testing.T) {
	f, err := viewFilter("comics", filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.category != "comics" {
		t.Fatalf("expected category comics, got %q", f.category)
	}
	// a note keeps its category, and the per-category view is the one
	// enumeration besides "notes" that still reaches it
	if f.isNote != nil {
		t.Fatalf("category view must not filter on the note flag")
	}
}

func TestViewFilter_Unknown(t *testing.T) {
	for _, view := range []string{"chores", "Completed", "drop table"} {
		_, err := viewFilter(view, filterNow)
		if err == nil {
			t.Fatalf("expected error for view %q", view)
		}
	}
}

func TestBuildTaskQuery_AlwaysScopedToOwner(t *testing.T) {
	for _, view := range []string{"home", "all", "pastdue", "completed", "notes", "work"} {
		f, err := viewFilter(view, filterNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		query, args := buildTaskQuery(42, f)
		if !strings.Contains(query, "WHERE user_id = $1") {
			t.Fatalf("view %q query is not owner scoped: %s", view, query)
		}
		if len(args) == 0 || args[0] != 42 {
			t.Fatalf("view %q first argument must be the owner id, got %v", view, args)
		}
		if strings.Count(query, "$") != len(args) {
			t.Fatalf("view %q placeholder/argument mismatch: %s %v", view, query, args)
		}
	}
}

func TestBuildTaskQuery_HomeWindow(t *testing.T) {
	f, err := viewFilter("home", filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	query, args := buildTaskQuery(1, f)
	if !strings.Contains(query, "due <= $4") {
		t.Fatalf("expected inclusive due bound: %s", query)
	}
	if !strings.Contains(query, "ORDER BY due ASC NULLS LAST") {
		t.Fatalf("expected due ordering: %s", query)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 arguments, got %v", args)
	}
	if args[1] != false || args[2] != false {
		t.Fatalf("home must select open non-note tasks: %v", args)
	}
}

func TestBuildTaskQuery_PastDueStrictBound(t *testing.T) {
	f, err := viewFilter("pastdue", filterNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	query, _ := buildTaskQuery(1, f)
	if !strings.Contains(query, "due < $4") || strings.Contains(query, "due <= $4") {
		t.Fatalf("pastdue bound must be strict: %s", query)
	}
}
