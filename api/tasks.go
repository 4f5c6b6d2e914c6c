package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const dueDateLayout = "2006-01-02"

func parseDueDate(v *validator, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	d, err := time.Parse(dueDateLayout, raw)
	if err != nil {
		v.checkCond(false, "due", "must be a date in the form YYYY-MM-DD")
		return nil
	}
	return &d
}

// loadOwnedTask fetches the task from the path id and checks it belongs
// to the authenticated principal. A task owned by someone else answers
// 404, same as one that does not exist, so ids cannot be probed.
func (app *application) loadOwnedTask(w http.ResponseWriter, r *http.Request) *task {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, errors.New("invalid task id"), http.StatusNotFound)
		return nil
	}
	t, err := app.storage.getTask(id)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return nil
	}
	if t == nil || t.UserID != getUserFromRequest(r).ID {
		writeError(w, errors.New("task not found"), http.StatusNotFound)
		return nil
	}
	return t
}

func (app *application) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Due      string `json:"due"`
		Category string `json:"category"`
		IsNote   bool   `json:"is_note"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkTitle(input.Title)
	v.checkCategory(input.Category)
	due := parseDueDate(v, input.Due)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusUnprocessableEntity)
		return
	}
	t := &task{
		UserID:   getUserFromRequest(r).ID,
		Title:    input.Title,
		Content:  input.Content,
		Due:      due,
		Category: input.Category,
		IsNote:   input.IsNote,
	}
	if t.IsNote {
		t.Due = nil
	}
	err = app.storage.insertTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (app *application) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	u := getUserFromRequest(r)
	if u == nil {
		// the home view degrades to an empty listing for anonymous
		// visitors; every other view needs a session
		if view != "" && view != "home" {
			writeError(w, errors.New("you must be logged in to access this resource"), http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Tasks []task `json:"tasks"`
		}{
			Tasks: []task{},
		})
		return
	}
	f, err := viewFilter(view, time.Now())
	if err != nil {
		writeError(w, err, http.StatusNotFound)
		return
	}
	tasks, err := app.storage.queryTasks(u.ID, f)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []task{}
	}
	writeJSON(w, http.StatusOK, struct {
		Tasks []task `json:"tasks"`
	}{
		Tasks: tasks,
	})
}

func (app *application) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	t := app.loadOwnedTask(w, r)
	if t == nil {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	t := app.loadOwnedTask(w, r)
	if t == nil {
		return
	}
	var input struct {
		Content  string `json:"content"`
		Due      string `json:"due"`
		Category string `json:"category"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCategory(input.Category)
	due := parseDueDate(v, input.Due)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusUnprocessableEntity)
		return
	}
	t.applyEdit(input.Content, due, input.Category)
	err = app.storage.updateTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) editNoteHandler(w http.ResponseWriter, r *http.Request) {
	t := app.loadOwnedTask(w, r)
	if t == nil {
		return
	}
	var input struct {
		Content string `json:"content"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	t.Content = input.Content
	err = app.storage.updateTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) convertToNoteHandler(w http.ResponseWriter, r *http.Request) {
	t := app.loadOwnedTask(w, r)
	if t == nil {
		return
	}
	t.convertToNote()
	err := app.storage.updateTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) toggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	t := app.loadOwnedTask(w, r)
	if t == nil {
		return
	}
	t.toggleCompleted(time.Now())
	err := app.storage.updateTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// deleteRedirectTarget picks the listing to send the client back to
// after a delete: the completed view when that is where the delete came
// from, the home view otherwise.
func deleteRedirectTarget(referer string) string {
	if strings.Contains(referer, "completed") {
		return "/v1/tasks?view=completed"
	}
	return "/v1/tasks"
}

func (app *application) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, errors.New("invalid task id"), http.StatusNotFound)
		return
	}
	t, err := app.storage.getTask(id)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	if t == nil {
		writeError(w, errors.New("task not found"), http.StatusNotFound)
		return
	}
	// deleting someone else's task silently does nothing; the redirect
	// still happens, so a non-owner cannot tell the delete was skipped
	if t.UserID == getUserFromRequest(r).ID {
		err = app.storage.deleteTask(t.ID)
		if err != nil {
			log.Println(err)
			writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, deleteRedirectTarget(r.Referer()), http.StatusSeeOther)
}
