package api

import (
	"net/http"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// Home handles GET /api.
func Home(w http.ResponseWriter, r *http.Request) {
	shared.Respond(w, r, http.StatusOK, "OK", shared.EmptyObject)
}
