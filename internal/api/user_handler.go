package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/service"
)

const userEntity = "User"

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if userService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userService cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /api/users requests
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	opts, err := listOptions(r)
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	if opts.Count {
		n, err := h.userService.Count(r.Context(), opts)
		if err != nil {
			HandleAPIError(w, r, err, userEntity)
			return
		}
		shared.Respond(w, r, http.StatusOK, "200 OK", n)
		return
	}

	users, err := h.userService.List(r.Context(), opts)
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	docs := make([]map[string]any, 0, len(users))
	for _, user := range users {
		docs = append(docs, opts.Select.Apply(userDocument(user)))
	}

	log.Debug("users listed", slog.Int("count", len(docs)))

	if len(docs) == 0 {
		shared.Respond(w, r, http.StatusNotFound, "404 No Users Found", docs)
		return
	}
	shared.Respond(w, r, http.StatusOK, "200 OK", docs)
}

// CreateUser handles POST /api/users requests
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	user, err := h.userService.Create(r.Context(), req.params())
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	shared.Respond(w, r, http.StatusCreated, "201 User Created", userDocument(user))
}

// GetUser handles GET /api/users/{id} requests
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	projection, err := selectParam(r)
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	shared.Respond(w, r, http.StatusOK, "200 OK", projection.Apply(userDocument(user)))
}

// UpdateUser handles PUT /api/users/{id} requests
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	var req UpdateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	user, err := h.userService.Update(r.Context(), id, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	shared.Respond(w, r, http.StatusOK, "200 User Updated", userDocument(user))
}

// DeleteUser handles DELETE /api/users/{id} requests. The removed user is
// returned.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	user, err := h.userService.Delete(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, userEntity)
		return
	}

	shared.Respond(w, r, http.StatusOK, "200 User Deleted", userDocument(user))
}
