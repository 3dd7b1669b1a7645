package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{in: "2024-03-01T12:00:00.123Z", want: time.Date(2024, 3, 1, 12, 0, 0, 123e6, time.UTC), wantOK: true},
		{in: "2024-03-01T12:00:00Z", want: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), wantOK: true},
		{in: "2024-03-01T14:00:00+02:00", want: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), wantOK: true},
		{in: "2024-03-01T12:30Z", want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), wantOK: true},
		{in: "2024-03-01T12:30:15", want: time.Date(2024, 3, 1, 12, 30, 15, 0, time.UTC), wantOK: true},
		{in: "2024-03-01T12:30", want: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), wantOK: true},
		{in: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: " 2024-03-01 ", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "yesterday"},
		{in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 12, 12, 790_000_000, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-03-01T07:12:12.790Z", FormatTimestamp(at))
}

func TestItemDecodeCreatedAtVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "toISOString", raw: `"2024-03-01T08:12:12.791Z"`, want: time.Date(2024, 3, 1, 8, 12, 12, 791e6, time.UTC)},
		{name: "date only", raw: `"2024-03-01"`, want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "unix milliseconds", raw: `1709280732791`, want: time.UnixMilli(1709280732791).UTC()},
		{name: "unreadable string", raw: `"soon"`},
		{name: "null", raw: `null`},
		{name: "wrong type", raw: `{"when":"now"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it Item
			data := `{"id":"x","title":"Deep Work","status":"reading","createdAt":` + tt.raw + `}`
			require.NoError(t, json.Unmarshal([]byte(data), &it))
			assert.Equal(t, "x", it.ID, "other fields still decode")
			assert.Equal(t, StatusReading, it.Status)
			assert.True(t, tt.want.Equal(it.CreatedAt), "got %s, want %s", it.CreatedAt, tt.want)
		})
	}

	t.Run("missing", func(t *testing.T) {
		var it Item
		require.NoError(t, json.Unmarshal([]byte(`{"id":"x","title":"T","status":"backlog"}`), &it))
		assert.True(t, it.CreatedAt.IsZero())
	})
}

func TestItemJSONRoundTrip(t *testing.T) {
	in := Item{
		ID:        "a",
		Title:     "Deep Work",
		Author:    "Cal Newport",
		Status:    StatusCompleted,
		Favorite:  true,
		CreatedAt: time.Date(2024, 3, 1, 8, 12, 12, 791e6, time.UTC),
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt":"2024-03-01T08:12:12.791Z"`)

	var out Item
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestItemDecodeRejectsMalformedRecord(t *testing.T) {
	var it Item
	assert.Error(t, json.Unmarshal([]byte(`{"id":"x","title":42}`), &it))
}
