package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItem
		want  float64
	}{
		{
			name: "two lines",
			items: []OrderItem{
				{ProductID: "p-1", Quantity: 2, UnitPrice: 5.0},
				{ProductID: "p-2", Quantity: 1, UnitPrice: 10.0},
			},
			want: 20.0,
		},
		{
			name: "no float drift",
			items: []OrderItem{
				{ProductID: "p-1", Quantity: 3, UnitPrice: 0.1},
				{ProductID: "p-2", Quantity: 1, UnitPrice: 0.2},
			},
			want: 0.5,
		},
		{
			name:  "empty",
			items: nil,
			want:  0,
		},
		{
			name:  "free item",
			items: []OrderItem{{ProductID: "p-9", Quantity: 4, UnitPrice: 0}},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotal(tt.items))
		})
	}
}

func TestProductApply(t *testing.T) {
	desc := "old"
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Product{ID: "p-1", Name: "A", Price: 1, Description: &desc, UpdatedAt: &before}

	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	name := "B"
	p.Apply(ProductPatch{Name: &name}, now)

	assert.Equal(t, "B", p.Name)
	assert.Equal(t, 1.0, p.Price)
	require.NotNil(t, p.Description)
	assert.Equal(t, "old", *p.Description)
	require.NotNil(t, p.UpdatedAt)
	assert.Equal(t, time.UTC, p.UpdatedAt.Location())
	assert.True(t, p.UpdatedAt.Equal(now))
}

func TestProductApply_EmptyPatchRefreshesTimestamp(t *testing.T) {
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := Product{ID: "p-1", Name: "A", Price: 1, UpdatedAt: &before}

	now := before.Add(time.Hour)
	p.Apply(ProductPatch{}, now)

	assert.Equal(t, "A", p.Name)
	assert.Equal(t, 1.0, p.Price)
	assert.True(t, p.UpdatedAt.Equal(now))
}

func TestCacheSnapshotDropsTimestamp(t *testing.T) {
	now := time.Now().UTC()
	p := Product{ID: "p-1", Name: "A", UpdatedAt: &now}
	snap := p.CacheSnapshot()
	assert.Nil(t, snap.UpdatedAt)
	assert.NotNil(t, p.UpdatedAt)

	o := Order{ID: "o-1", CreatedAt: &now, Items: []OrderItem{{ProductID: "p-1", Quantity: 1}}}
	osnap := o.CacheSnapshot()
	assert.Nil(t, osnap.CreatedAt)
	assert.Equal(t, o.Items, osnap.Items)
}

func TestNewProductUpdated(t *testing.T) {
	ts := time.UnixMilli(1_700_000_000_123).UTC()
	p := &Product{ID: "p-1", Name: "A", Price: 2.5, UpdatedAt: &ts}

	ev := NewProductUpdated(p, time.Now())
	assert.Equal(t, EventProductUpdated, ev.EventName())
	assert.Equal(t, "p-1", ev.AggregateID())
	assert.Equal(t, int64(1_700_000_000_123), ev.UpdatedAt)
}

func TestNewOrderCreated(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	o := &Order{
		ID:          "o-1",
		CustomerID:  "c-1",
		Status:      "CREATED",
		Currency:    "USD",
		TotalAmount: 20,
		Items:       []OrderItem{{ProductID: "p-1", Quantity: 2, UnitPrice: 10}},
	}

	ev := NewOrderCreated(o, now)
	assert.Equal(t, EventOrderCreated, ev.EventName())
	assert.Equal(t, "o-1", ev.AggregateID())
	assert.Equal(t, "o-1", ev.EventID)
	assert.Equal(t, "2024-05-06T07:08:09Z", ev.CreatedAt)
	assert.Equal(t, ev.OccurredAt, ev.CreatedAt)
	assert.Len(t, ev.Items, 1)
}
