package main

import "time"

type user struct {
	ID           int       `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
}

var categories = []string{"work", "coding", "comics", "other"}

func isValidCategory(c string) bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

type task struct {
	ID          int        `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Due         *time.Time `json:"due,omitempty"`
	Category    string     `json:"category"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsNote      bool       `json:"is_note"`
}

type scheduleKind int

const (
	scheduleDated scheduleKind = iota
	scheduleNote
	scheduleUnscheduled
)

// schedule distinguishes a task with a real due date from the two kinds
// of absent due date: a note (due cleared by conversion) and a dated task
// that simply never got one.
type schedule struct {
	kind scheduleKind
	date time.Time
}

func (t *task) schedule() schedule {
	if t.IsNote {
		return schedule{kind: scheduleNote}
	}
	if t.Due == nil {
		return schedule{kind: scheduleUnscheduled}
	}
	return schedule{kind: scheduleDated, date: *t.Due}
}

// toggleCompleted flips the completion state. Completing stamps the
// completion time, un-completing clears it, so applying it twice always
// restores the original state.
func (t *task) toggleCompleted(now time.Time) {
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// convertToNote turns a dated task into a freeform note. The due date is
// cleared; there is no inverse operation, but applyEdit makes the task
// dated again as a side effect.
func (t *task) convertToNote() {
	t.IsNote = true
	t.Due = nil
}

// applyEdit replaces the editable fields of a dated task. It always
// forces the task back to dated, so editing a note converts it back.
// The owner is never touched.
func (t *task) applyEdit(content string, due *time.Time, category string) {
	t.Content = content
	t.Due = due
	t.Category = category
	t.IsNote = false
}
