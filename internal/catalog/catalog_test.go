package catalog

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []LineItem {
	return []LineItem{
		{OwnerID: "c1", Name: "A", Size: "M", Color: "Red", UnitPrice: 10, Quantity: 2},
		{OwnerID: "c1", Name: "A", Size: "L", Color: "Red", UnitPrice: 10, Quantity: 1},
		{OwnerID: "c2", Name: "B", Size: "M", Color: "Blue", UnitPrice: 5, Quantity: 3},
	}
}

func inputTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Value()
	}
	return sum
}

func TestAggregateMergesVariants(t *testing.T) {
	got := Aggregate(sampleItems())
	want := []Product{
		{
			Name:          "A",
			TotalQuantity: 3,
			TotalValue:    30,
			Variants: []Variant{
				{Size: "M", Color: "Red", Quantity: 2, UnitPrice: 10},
				{Size: "L", Color: "Red", Quantity: 1, UnitPrice: 10},
			},
		},
		{
			Name:          "B",
			TotalQuantity: 3,
			TotalValue:    15,
			Variants: []Variant{
				{Size: "M", Color: "Blue", Quantity: 3, UnitPrice: 5},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateSumsRepeatedVariant(t *testing.T) {
	items := []LineItem{
		{Name: "A", Size: "M", Color: "Red", UnitPrice: 10, Quantity: 2},
		{Name: "A", Size: "M", Color: "Red", UnitPrice: 10, Quantity: 5},
	}
	got := Aggregate(items)
	require.Len(t, got, 1)
	require.Len(t, got[0].Variants, 1)
	assert.Equal(t, 7, got[0].Variants[0].Quantity)
	assert.Equal(t, 7, got[0].TotalQuantity)
	assert.Equal(t, 70.0, got[0].TotalValue)
}

func TestAggregateOrderStability(t *testing.T) {
	items := []LineItem{
		{Name: "Z", Size: "S", Color: "Black", UnitPrice: 1, Quantity: 1},
		{Name: "A", Size: "S", Color: "Black", UnitPrice: 1, Quantity: 1},
		{Name: "Z", Size: "M", Color: "Black", UnitPrice: 1, Quantity: 1},
		{Name: "M", Size: "S", Color: "Black", UnitPrice: 1, Quantity: 1},
	}
	got := Aggregate(items)
	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Z", "A", "M"}, names)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestGroupByOwnerWorkedExample(t *testing.T) {
	groups := GroupByOwner(sampleItems())
	require.Len(t, groups, 2)

	assert.Equal(t, "c1", groups[0].OwnerID)
	require.Len(t, groups[0].Products, 1)
	assert.Equal(t, "A", groups[0].Products[0].Name)
	assert.Equal(t, 3, groups[0].Products[0].TotalQuantity)
	assert.Equal(t, 30.0, groups[0].Products[0].TotalValue)
	assert.Len(t, groups[0].Products[0].Variants, 2)

	assert.Equal(t, "c2", groups[1].OwnerID)
	require.Len(t, groups[1].Products, 1)
	assert.Equal(t, "B", groups[1].Products[0].Name)
	assert.Equal(t, 3, groups[1].Products[0].TotalQuantity)
	assert.Equal(t, 15.0, groups[1].Products[0].TotalValue)

	assert.Equal(t, 45.0, GrandTotal(groups))
}

func TestValuePreservation(t *testing.T) {
	cases := map[string][]LineItem{
		"example": sampleItems(),
		"single":  {{OwnerID: "o1", Name: "X", Size: "S", Color: "White", UnitPrice: 19.99, Quantity: 4}},
		"many owners": {
			{OwnerID: "o1", Name: "X", Size: "S", Color: "White", UnitPrice: 3.5, Quantity: 2},
			{OwnerID: "o2", Name: "X", Size: "S", Color: "White", UnitPrice: 3.5, Quantity: 1},
			{OwnerID: "o1", Name: "Y", Size: "M", Color: "Black", UnitPrice: 12.25, Quantity: 7},
			{OwnerID: "o3", Name: "Z", Size: "L", Color: "Green", UnitPrice: 0.99, Quantity: 10},
			{OwnerID: "o2", Name: "Y", Size: "M", Color: "Black", UnitPrice: 12.25, Quantity: 1},
		},
		"empty": nil,
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			groups := GroupByOwner(items)
			if math.Abs(GrandTotal(groups)-inputTotal(items)) > 1e-9 {
				t.Errorf("grand total %v != input total %v", GrandTotal(groups), inputTotal(items))
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	first := GroupByOwner(sampleItems())
	second := GroupByOwner(Flatten(first))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-aggregation changed output (-first +second):\n%s", diff)
	}
}

func TestGroupItemsFlat(t *testing.T) {
	items := []LineItem{
		{Name: "A", Size: "M", Color: "Red", UnitPrice: 10, Quantity: 1},
		{Name: "B", Size: "M", Color: "Blue", UnitPrice: 5, Quantity: 2},
	}
	groups := GroupItems(items, ModeFlat)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].OwnerID)
	assert.Len(t, groups[0].Products, 2)
	assert.Equal(t, 20.0, groups[0].Total)
}

func TestDetectMode(t *testing.T) {
	flat := []LineItem{{Name: "A"}, {Name: "B"}}
	mode, err := DetectMode(flat)
	require.NoError(t, err)
	assert.Equal(t, ModeFlat, mode)

	grouped := []LineItem{{Name: "A", OwnerID: "o"}, {Name: "B", OwnerID: "p"}}
	mode, err = DetectMode(grouped)
	require.NoError(t, err)
	assert.Equal(t, ModeGrouped, mode)

	mixed := []LineItem{{Name: "A", OwnerID: "o"}, {Name: "B"}}
	_, err = DetectMode(mixed)
	assert.ErrorIs(t, err, ErrMixedOwners)
}

func TestVariantPriceLastWriteWins(t *testing.T) {
	items := []LineItem{
		{Name: "A", Size: "M", Color: "Red", UnitPrice: 10, Quantity: 1},
		{Name: "A", Size: "M", Color: "Red", UnitPrice: 12, Quantity: 1},
	}
	got := Aggregate(items)
	require.Len(t, got, 1)
	require.Len(t, got[0].Variants, 1)
	assert.Equal(t, 12.0, got[0].Variants[0].UnitPrice)
	// Total still reflects each line at its own price.
	assert.Equal(t, 22.0, got[0].TotalValue)
}
