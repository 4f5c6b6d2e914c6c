package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/healthcheck", app.healthCheckHandler)

	mux.HandleFunc("POST /v1/users", app.createUserHandler)
	mux.HandleFunc("GET /v1/users", app.requireAuth(requireAdmin(app.getUsersHandler)))
	mux.HandleFunc("POST /v1/users/auth", app.authenticateUserHandler)
	mux.HandleFunc("DELETE /v1/users/auth", app.requireAuth(app.signOutHandler))

	mux.HandleFunc("GET /v1/tasks", app.maybeAuth(app.getTasksHandler))
	mux.HandleFunc("POST /v1/tasks", app.requireAuth(app.createTaskHandler))
	mux.HandleFunc("GET /v1/tasks/{id}", app.requireAuth(app.getTaskHandler))
	mux.HandleFunc("PUT /v1/tasks/{id}", app.requireAuth(app.updateTaskHandler))
	mux.HandleFunc("PUT /v1/tasks/{id}/notes", app.requireAuth(app.editNoteHandler))
	mux.HandleFunc("POST /v1/tasks/{id}/notes", app.requireAuth(app.convertToNoteHandler))
	mux.HandleFunc("POST /v1/tasks/{id}/toggle", app.requireAuth(app.toggleTaskHandler))
	mux.HandleFunc("DELETE /v1/tasks/{id}", app.requireAuth(app.deleteTaskHandler))

	handler := app.enableCORS(mux)
	if app.config.limiter.enabled {
		return app.rateLimit(handler)
	}
	return handler
}
