// ABOUTME: Tests for tri-state fields, coercion, and payload decoding
// ABOUTME: Verifies absent, null, and value stay distinct through JSON and map payloads
package patch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/harperreed/crmcore/crmerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   Field[string]    `json:"name"`
	Amount Field[float64]   `json:"amount"`
	Score  Field[int]       `json:"score"`
	Due    Field[time.Time] `json:"due"`
}

func TestFieldStates(t *testing.T) {
	var s sample
	require.NoError(t, json.Unmarshal([]byte(`{"name": null, "amount": 12.5}`), &s))

	assert.True(t, s.Name.IsSet())
	assert.True(t, s.Name.IsNull())
	assert.False(t, s.Name.HasValue())
	assert.Nil(t, s.Name.Ptr())

	assert.True(t, s.Amount.HasValue())
	assert.Equal(t, 12.5, s.Amount.Or(0))

	assert.False(t, s.Score.IsSet())
	assert.False(t, s.Due.IsSet())
	assert.Equal(t, 7, s.Score.Or(7))
}

func TestCoercion(t *testing.T) {
	var s sample
	require.NoError(t, DecodeMap(map[string]any{
		"amount": "1500.75",
		"score":  "42",
		"due":    "2025-03-01",
	}, &s))

	amount, _ := s.Amount.Get()
	assert.Equal(t, 1500.75, amount)
	score, _ := s.Score.Get()
	assert.Equal(t, 42, score)
	due, _ := s.Due.Get()
	assert.True(t, due.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCoercionTimestampLayouts(t *testing.T) {
	for _, in := range []string{"2025-03-01T10:00:00Z", "2025-03-01T10:00:00.000Z", "2025-03-01T10:00:00", "2025-03-01T11:00:00+01:00"} {
		var s sample
		require.NoError(t, DecodeMap(map[string]any{"due": in}, &s), in)
		due, _ := s.Due.Get()
		assert.True(t, due.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)), in)
	}
}

func TestCoercionFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"non-numeric amount", map[string]any{"amount": "lots"}, "amount"},
		{"fractional score", map[string]any{"score": 1.5}, "score"},
		{"non-numeric score", map[string]any{"score": "high"}, "score"},
		{"bad date", map[string]any{"due": "next tuesday"}, "due"},
		{"number for string", map[string]any{"name": 12}, "name"},
		{"bool for amount", map[string]any{"amount": true}, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s sample
			err := DecodeMap(tt.payload, &s)
			require.Error(t, err)
			assert.True(t, crmerr.IsValidation(err))
			assert.Equal(t, tt.field, crmerr.FieldOf(err))
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	var s sample
	err := DecodeMap(map[string]any{"name": "x", "id": "abc"}, &s)
	require.Error(t, err)
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "id", crmerr.FieldOf(err))
}

func TestDecodeJSON(t *testing.T) {
	var s sample
	require.NoError(t, DecodeJSON([]byte(`{"name":"Ada","score":null}`), &s))
	assert.Equal(t, "Ada", s.Name.Or(""))
	assert.True(t, s.Score.IsNull())

	err := DecodeJSON([]byte(`[1,2]`), &s)
	assert.True(t, crmerr.IsValidation(err))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"amount", "due", "name", "score"}, Keys(&sample{}))
}

func TestRequiredAndOptional(t *testing.T) {
	name := "old"
	require.NoError(t, Required(&name, Field[string]{}, "name"))
	assert.Equal(t, "old", name)

	require.NoError(t, Required(&name, Value("new"), "name"))
	assert.Equal(t, "new", name)

	err := Required(&name, Null[string](), "name")
	assert.True(t, crmerr.IsValidation(err))
	assert.Equal(t, "new", name)

	phone := "555"
	ptr := &phone
	Optional(&ptr, Field[string]{})
	require.NotNil(t, ptr)
	assert.Equal(t, "555", *ptr)

	Optional(&ptr, Value("556"))
	assert.Equal(t, "556", *ptr)
	assert.Equal(t, "555", phone)

	Optional(&ptr, Null[string]())
	assert.Nil(t, ptr)
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(sample{Name: Value("Ada"), Amount: Null[float64]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada","amount":null,"score":null,"due":null}`, string(b))
}
