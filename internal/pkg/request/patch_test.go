package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchBody struct {
	Title string            `json:"title"`
	Brand Optional[string]  `json:"brand"`
	Area  Optional[float64] `json:"area"`
}

func TestOptionalUnmarshal(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		var body patchBody
		require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &body))
		assert.False(t, body.Brand.Set)
		assert.False(t, body.Area.Set)
	})

	t.Run("null", func(t *testing.T) {
		var body patchBody
		require.NoError(t, json.Unmarshal([]byte(`{"brand":null}`), &body))
		assert.True(t, body.Brand.Set)
		assert.False(t, body.Brand.Valid)
		assert.Nil(t, body.Brand.Ptr())
	})

	t.Run("value", func(t *testing.T) {
		var body patchBody
		require.NoError(t, json.Unmarshal([]byte(`{"brand":"Mahindra","area":2.5}`), &body))
		assert.True(t, body.Brand.Set)
		assert.True(t, body.Brand.Valid)
		assert.Equal(t, "Mahindra", body.Brand.Value)
		assert.Equal(t, 2.5, body.Area.Value)
	})

	t.Run("wrong type", func(t *testing.T) {
		var body patchBody
		assert.Error(t, json.Unmarshal([]byte(`{"area":"wide"}`), &body))
	})
}

func TestOptionalPtr(t *testing.T) {
	o := Optional[int]{Set: true, Valid: true, Value: 7}
	p := o.Ptr()
	require.NotNil(t, p)
	assert.Equal(t, 7, *p)

	// Ptr copies: mutating through the pointer leaves the Optional intact.
	*p = 8
	assert.Equal(t, 7, o.Value)

	assert.Nil(t, Optional[int]{Set: true}.Ptr())
	assert.Nil(t, Optional[int]{}.Ptr())
}
