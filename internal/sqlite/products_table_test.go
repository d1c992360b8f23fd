// Tests for CRUD over the products table.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

func TestCreateGetRoundTrip(t *testing.T) {
	s := setupStore(t)

	id, err := s.Create(types.ProductInput{Name: "Widget", Quantity: 5, Price: 9.99})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, 9.99, got.Price)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.ImageURI)
	assert.False(t, got.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}

func TestCreate_OptionalFields(t *testing.T) {
	s := setupStore(t)

	id, err := s.Create(types.ProductInput{
		Name:        "Lamp",
		Quantity:    2,
		Price:       45,
		Description: types.StringPtr("Desk lamp"),
		ImageURI:    types.StringPtr("file:///images/lamp.jpg"),
	})
	require.NoError(t, err)

	got, err := s.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Desk lamp", types.StringValue(got.Description))
	assert.Equal(t, "file:///images/lamp.jpg", types.StringValue(got.ImageURI))
}

func TestGetByID_Unknown(t *testing.T) {
	s := setupStore(t)

	got, err := s.GetByID(42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestListAll_Empty(t *testing.T) {
	s := setupStore(t)

	products, err := s.ListAll()
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListAll_NewestFirst(t *testing.T) {
	s := setupStore(t)

	for _, name := range []string{"A", "B", "C"} {
		_, err := s.Create(types.ProductInput{Name: name, Quantity: 1, Price: 1})
		require.NoError(t, err)
	}

	products, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "C", products[0].Name)
	assert.Equal(t, "B", products[1].Name)
	assert.Equal(t, "A", products[2].Name)
}

func TestListAll_OrdersByCreatedAtBeforeID(t *testing.T) {
	s := setupStore(t)

	_, err := s.Create(types.ProductInput{Name: "Fresh", Quantity: 1, Price: 1})
	require.NoError(t, err)
	// A row with a higher id but an older timestamp sorts last.
	_, err = s.db.Exec("INSERT INTO products (name, quantity, price, created_at) VALUES ('Vintage', 1, 1, '2020-01-01 00:00:00')")
	require.NoError(t, err)

	products, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Fresh", products[0].Name)
	assert.Equal(t, "Vintage", products[1].Name)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), products[1].CreatedAt)
}

func TestUpdate(t *testing.T) {
	s := setupStore(t)

	id, err := s.Create(types.ProductInput{Name: "Widget", Quantity: 5, Price: 9.99, Description: types.StringPtr("old")})
	require.NoError(t, err)
	before, err := s.GetByID(id)
	require.NoError(t, err)

	n, err := s.Update(id, types.ProductInput{
		Name:     "Widget Pro",
		Quantity: 7,
		Price:    19.5,
		ImageURI: types.StringPtr("file:///w.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	after, err := s.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, "Widget Pro", after.Name)
	assert.Equal(t, int64(7), after.Quantity)
	assert.Equal(t, 19.5, after.Price)
	assert.Nil(t, after.Description, "update replaces every mutable field")
	assert.Equal(t, "file:///w.png", types.StringValue(after.ImageURI))
	assert.Equal(t, before.CreatedAt, after.CreatedAt, "created_at is immutable")
	assert.Equal(t, id, after.ID)
}

func TestUpdate_UnknownIDIsNoOp(t *testing.T) {
	s := setupStore(t)

	id, err := s.Create(types.ProductInput{Name: "Widget", Quantity: 5, Price: 9.99})
	require.NoError(t, err)

	n, err := s.Update(id+100, types.ProductInput{Name: "Ghost", Quantity: 1, Price: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err := s.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
}

func TestDelete(t *testing.T) {
	s := setupStore(t)

	id, err := s.Create(types.ProductInput{Name: "Widget", Quantity: 5, Price: 9.99})
	require.NoError(t, err)

	n, err := s.Delete(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.GetByID(id)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err = s.Delete(id)
	require.NoError(t, err, "deleting an unknown id is not an error")
	assert.Equal(t, int64(0), n)
}

func TestIDsAreNeverReused(t *testing.T) {
	s := setupStore(t)

	first, err := s.Create(types.ProductInput{Name: "One", Quantity: 1, Price: 1})
	require.NoError(t, err)
	_, err = s.Delete(first)
	require.NoError(t, err)

	second, err := s.Create(types.ProductInput{Name: "Two", Quantity: 1, Price: 1})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	_, err = s.DeleteAll()
	require.NoError(t, err)

	third, err := s.Create(types.ProductInput{Name: "Three", Quantity: 1, Price: 1})
	require.NoError(t, err)
	assert.Greater(t, third, second)
}

func TestDeleteAll(t *testing.T) {
	s := setupStore(t)

	for _, name := range []string{"A", "B"} {
		_, err := s.Create(types.ProductInput{Name: name, Quantity: 1, Price: 1})
		require.NoError(t, err)
	}

	n, err := s.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	products, err := s.ListAll()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestTimestampScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want time.Time
	}{
		{name: "sqlite text", src: "2024-03-05 10:20:30", want: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{name: "rfc3339 bytes", src: []byte("2024-03-05T10:20:30Z"), want: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{name: "time value", src: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC), want: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{name: "unix epoch", src: int64(0), want: time.Unix(0, 0).UTC()},
		{name: "null", src: nil, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, ts.Scan(tt.src))
			assert.True(t, tt.want.Equal(ts.Time), "want %v, got %v", tt.want, ts.Time)
		})
	}

	var ts timestamp
	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(3.5))
}
