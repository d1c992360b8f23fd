package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductJSONUsesColumnNames(t *testing.T) {
	p := Product{
		ID:          7,
		Name:        "Widget",
		Quantity:    3,
		Price:       9.99,
		Description: StringPtr("blue"),
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "blue", m["description"])
	assert.Nil(t, m["image_uri"])
	assert.Contains(t, m, "created_at")
	assert.Equal(t, float64(7), m["id"])
}

func TestProductInput(t *testing.T) {
	p := Product{ID: 1, Name: "Bolt", Quantity: 10, Price: 0.25, ImageURI: StringPtr("file:///a.png")}
	in := p.Input()
	assert.Equal(t, "Bolt", in.Name)
	assert.Equal(t, int64(10), in.Quantity)
	assert.Equal(t, 0.25, in.Price)
	assert.Nil(t, in.Description)
	assert.Equal(t, "file:///a.png", StringValue(in.ImageURI))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Equal(t, "x", *StringPtr("x"))
	assert.Equal(t, "", StringValue(nil))
}
