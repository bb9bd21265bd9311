package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeUnmarshal(t *testing.T) {
	want := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{`"2030-01-02"`, `"2030-01-02T00:00:00Z"`, `1893542400000`} {
		var got Time
		require.NoError(t, json.Unmarshal([]byte(input), &got), input)
		assert.True(t, want.Equal(got.Time), input)
	}

	for _, input := range []string{`"tomorrow"`, `true`, `1.5`} {
		var got Time
		assert.Error(t, json.Unmarshal([]byte(input), &got), input)
	}
}

func TestUpdateTaskRequestPatch(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2030-01-02","name":"x"}`), &req))

	patch := req.patch()
	require.NotNil(t, patch.Deadline)
	assert.Equal(t, 2030, patch.Deadline.Year())
	assert.Equal(t, "x", *patch.Name)
	assert.False(t, patch.HasAssignment())
}
