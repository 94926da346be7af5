package catalog

import "errors"

// GroupMode selects how GroupItems partitions its input. The mode is supplied
// by the caller instead of sniffed from the first item's fields, so a payload
// mixing owned and ownerless lines is rejected up front rather than silently
// mis-partitioned.
type GroupMode int

const (
	// ModeFlat aggregates all items into a single group with no owner.
	ModeFlat GroupMode = iota
	// ModeGrouped partitions items by OwnerID before aggregating.
	ModeGrouped
)

// ErrMixedOwners is returned by DetectMode when some items carry an OwnerID
// and others do not.
var ErrMixedOwners = errors.New("catalog: input mixes owned and ownerless line items")

// Group is one owner's aggregated slice of the input: its products in
// first-seen order and the sum of their total values.
type Group struct {
	OwnerID  string
	Products []Product
	Total    float64
}

// DetectMode inspects every item and reports whether the input is uniformly
// owned or uniformly ownerless. Empty input detects as flat.
func DetectMode(items []LineItem) (GroupMode, error) {
	owned, bare := 0, 0
	for _, it := range items {
		if it.OwnerID != "" {
			owned++
		} else {
			bare++
		}
	}
	if owned > 0 && bare > 0 {
		return ModeFlat, ErrMixedOwners
	}
	if owned > 0 {
		return ModeGrouped, nil
	}
	return ModeFlat, nil
}

// GroupItems partitions items according to mode and aggregates each partition.
// Partition order follows the first occurrence of each OwnerID. In ModeFlat
// the result is a single group with an empty OwnerID.
func GroupItems(items []LineItem, mode GroupMode) []Group {
	if mode == ModeFlat {
		products := Aggregate(items)
		return []Group{{Products: products, Total: productsTotal(products)}}
	}

	index := make(map[string]int, len(items))
	partitions := make([][]LineItem, 0)
	order := make([]string, 0)
	for _, it := range items {
		i, ok := index[it.OwnerID]
		if !ok {
			i = len(partitions)
			index[it.OwnerID] = i
			partitions = append(partitions, nil)
			order = append(order, it.OwnerID)
		}
		partitions[i] = append(partitions[i], it)
	}

	out := make([]Group, len(partitions))
	for i, part := range partitions {
		products := Aggregate(part)
		out[i] = Group{OwnerID: order[i], Products: products, Total: productsTotal(products)}
	}
	return out
}

// GroupByOwner is shorthand for GroupItems in ModeGrouped.
func GroupByOwner(items []LineItem) []Group {
	return GroupItems(items, ModeGrouped)
}

// GrandTotal sums the group totals. For any input, GrandTotal over its groups
// equals the sum of quantity×unit price over the original flat items.
func GrandTotal(groups []Group) float64 {
	var sum float64
	for _, g := range groups {
		sum += g.Total
	}
	return sum
}

// Flatten expands groups back into flat line items, one per variant. Useful
// for re-aggregation checks; the round trip preserves all totals.
func Flatten(groups []Group) []LineItem {
	var out []LineItem
	for _, g := range groups {
		for _, p := range g.Products {
			for _, v := range p.Variants {
				out = append(out, LineItem{
					OwnerID:   g.OwnerID,
					Name:      p.Name,
					Size:      v.Size,
					Color:     v.Color,
					UnitPrice: v.UnitPrice,
					Quantity:  v.Quantity,
					ImageURL:  p.ImageURL,
				})
			}
		}
	}
	return out
}

func productsTotal(products []Product) float64 {
	var sum float64
	for _, p := range products {
		sum += p.TotalValue
	}
	return sum
}
