package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
)

// parseTaskIDs converts a pendingTasks list into task ids.
func parseTaskIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for i, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.NewValidationError(
				fmt.Sprintf("pendingTasks[%d]", i), "must be a valid task id", domain.ErrValidation)
		}
		out = append(out, id)
	}
	return out, nil
}

// knownTaskIDs is parseTaskIDs without the failure: entries that are not
// ids are dropped.
func knownTaskIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			out = append(out, id)
		}
	}
	return out
}
