package field

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional_AbsentField(t *testing.T) {
	var payload struct {
		Status Optional[string] `json:"status"`
	}

	err := json.Unmarshal([]byte(`{}`), &payload)

	assert.NoError(t, err)
	assert.False(t, payload.Status.Set)
}

func TestOptional_PresentField(t *testing.T) {
	var payload struct {
		Status Optional[string] `json:"status"`
	}

	err := json.Unmarshal([]byte(`{"status":"cancelled"}`), &payload)

	assert.NoError(t, err)
	assert.True(t, payload.Status.Set)
	assert.Equal(t, "cancelled", payload.Status.Value)
}

func TestOptional_PresentZeroValue(t *testing.T) {
	var payload struct {
		Active Optional[bool] `json:"active"`
	}

	err := json.Unmarshal([]byte(`{"active":false}`), &payload)

	assert.NoError(t, err)
	assert.True(t, payload.Active.Set)
	assert.False(t, payload.Active.Value)
}

func TestSome(t *testing.T) {
	o := Some(42)

	v, ok := o.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}
