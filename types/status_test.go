package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PENDING", StatusPending.String())
	assert.Equal(t, "CONFIRMED", StatusConfirmed.String())
	assert.Equal(t, "FAILED", StatusFailed.String())
	assert.Equal(t, "TIMEOUT", StatusTimeout.String())
	assert.Equal(t, "REVERTED", StatusReverted.String())
	assert.Equal(t, "UNKNOWN", Status(0).String())
	assert.Equal(t, "Status(42)", Status(42).String())
}

func TestStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give Status
		want bool
	}{
		{give: StatusPending, want: false},
		{give: StatusConfirmed, want: true},
		{give: StatusFailed, want: true},
		{give: StatusTimeout, want: true},
		{give: StatusReverted, want: true},
		{give: Status(0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.give.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.give.IsTerminal())
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, s := range Statuses {
		got, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("DONE")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("UNKNOWN")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatus_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(struct {
		S Status `json:"s"`
	}{S: StatusReverted})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"REVERTED"}`, string(b))

	var out struct {
		S Status `json:"s"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"s":"TIMEOUT"}`), &out))
	assert.Equal(t, StatusTimeout, out.S)

	require.Error(t, json.Unmarshal([]byte(`{"s":"nope"}`), &out))

	_, err = json.Marshal(struct {
		S Status `json:"s"`
	}{})
	require.Error(t, err)
}
