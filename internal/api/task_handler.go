package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/service"
)

const taskEntity = "Task"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests.
// With count=true the data is the number of matching tasks; otherwise it is
// the projected task list, and an empty list is a 404.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	opts, err := listOptions(r)
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	if opts.Count {
		n, err := h.taskService.Count(r.Context(), opts)
		if err != nil {
			HandleAPIError(w, r, err, taskEntity)
			return
		}
		shared.Respond(w, r, http.StatusOK, "200 OK", n)
		return
	}

	tasks, err := h.taskService.List(r.Context(), opts)
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	docs := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		docs = append(docs, opts.Select.Apply(taskDocument(task)))
	}

	log.Debug("tasks listed", slog.Int("count", len(docs)))

	if len(docs) == 0 {
		shared.Respond(w, r, http.StatusNotFound, "404 No Tasks Found", docs)
		return
	}
	shared.Respond(w, r, http.StatusOK, "200 OK", docs)
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	task, err := h.taskService.Create(r.Context(), req.params())
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	shared.Respond(w, r, http.StatusCreated, "201 Task Created", taskDocument(task))
}

// GetTask handles GET /api/tasks/{id} requests. The select parameter is
// honoured.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	projection, err := selectParam(r)
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	shared.Respond(w, r, http.StatusOK, "200 OK", projection.Apply(taskDocument(task)))
}

// UpdateTask handles PUT /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	var req UpdateTaskRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	task, err := h.taskService.Update(r.Context(), id, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	shared.Respond(w, r, http.StatusOK, "200 Task Updated", taskDocument(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests. The removed task is
// returned.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	task, err := h.taskService.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, taskEntity)
		return
	}

	shared.Respond(w, r, http.StatusOK, "200 Task Deleted", taskDocument(task))
}
