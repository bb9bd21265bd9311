package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// RegisterRoutes mounts the home, task and user endpoints under /api.
// Unknown paths and methods get the same envelope as every other error.
func RegisterRoutes(r chi.Router, tasks *TaskHandler, users *UserHandler) {
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "404 Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "405 Method Not Allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", Home)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.ListTasks)
			r.Post("/", tasks.CreateTask)
			r.Get("/{id}", tasks.GetTask)
			r.Put("/{id}", tasks.UpdateTask)
			r.Delete("/{id}", tasks.DeleteTask)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.ListUsers)
			r.Post("/", users.CreateUser)
			r.Get("/{id}", users.GetUser)
			r.Put("/{id}", users.UpdateUser)
			r.Delete("/{id}", users.DeleteUser)
		})
	})
}
