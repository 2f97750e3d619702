package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampDecodesBackendFormats(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-05-01T10:00:00Z"`:            time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		`"2024-05-01T12:00:00+02:00"`:       time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		`"2024-05-01T10:00:00.123456"`:      time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC),
		`"2024-05-01T10:00:00"`:             time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		`"2024-05-01 10:00:00"`:             time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		`"2024-05-01 10:00:00.5"`:           time.Date(2024, 5, 1, 10, 0, 0, 500000000, time.UTC),
		`"2024-05-01"`:                      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(raw), &ts))
			assert.True(t, want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestampEmptyAndNullAreZero(t *testing.T) {
	for _, raw := range []string{`""`, `null`} {
		ts := NewTimestamp(time.Now())
		require.NoError(t, json.Unmarshal([]byte(raw), &ts))
		assert.True(t, ts.IsZero(), raw)
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`1714557600`), &ts))
}

func TestTimestampMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		At   Timestamp `json:"at"`
		Zero Timestamp `json:"zero"`
	}{At: NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-05-01T10:00:00Z","zero":null}`, string(out))
}

func TestOrderListDecodesZonelessCreatedAt(t *testing.T) {
	payload := `[{"id":1,"status":"pending","total":5,"createdAt":"2024-05-01T10:00:00.123456"},
		{"id":2,"status":"paid","total":7,"createdAt":null}]`

	var orders []Order
	require.NoError(t, json.Unmarshal([]byte(payload), &orders))
	require.Len(t, orders, 2)
	assert.Equal(t, 2024, orders[0].CreatedAt.Year())
	assert.True(t, orders[1].CreatedAt.IsZero())
}
