package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc() map[string]any {
	return map[string]any{
		"id":          "t1",
		"name":        "Write",
		"description": "None",
		"completed":   false,
	}
}

func TestProjectionApply(t *testing.T) {
	tests := []struct {
		name string
		sel  string
		want map[string]any
	}{
		{
			name: "empty keeps everything",
			sel:  "",
			want: doc(),
		},
		{
			name: "inclusion keeps id",
			sel:  `{"name":1}`,
			want: map[string]any{"id": "t1", "name": "Write"},
		},
		{
			name: "inclusion without id",
			sel:  `{"name":1,"_id":0}`,
			want: map[string]any{"name": "Write"},
		},
		{
			name: "exclusion",
			sel:  `{"description":0,"completed":false}`,
			want: map[string]any{"id": "t1", "name": "Write"},
		},
		{
			name: "only id excluded",
			sel:  `{"id":0}`,
			want: map[string]any{"name": "Write", "description": "None", "completed": false},
		},
		{
			name: "only id included",
			sel:  `{"id":1}`,
			want: map[string]any{"id": "t1"},
		},
		{
			name: "unknown fields are ignored",
			sel:  `{"name":1,"nope":1}`,
			want: map[string]any{"id": "t1", "name": "Write"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseSelect(tt.sel)
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.Equal(t, tt.want, p.Apply(doc()))
		})
	}
}

func TestProjectionValidate(t *testing.T) {
	for _, s := range []string{`{"name":1,"completed":0}`, `{"name":2}`, `{"name":"yes"}`} {
		p, err := ParseSelect(s)
		require.NoError(t, err)
		assert.ErrorIs(t, p.Validate(), ErrInvalidQuery, "select %s", s)
	}
}
