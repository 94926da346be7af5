// Package catalog collapses flat per-variant line items into display-ready
// per-product summaries with nested size/color breakdowns. All functions are
// pure: no I/O, no shared state, deterministic output order (first-seen).
package catalog

// LineItem is one purchased or listed unit at a specific size, color, price
// and quantity, as returned by the backend. OwnerID carries the owning cart
// or order identifier when the item belongs to a partitioned collection.
type LineItem struct {
	OwnerID   string
	Name      string
	Size      string
	Color     string
	UnitPrice float64
	Quantity  int
	ImageURL  string
}

// Value returns the line's contribution to any total it participates in.
func (li LineItem) Value() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Variant is the per-(size,color) breakdown within an aggregated product.
// Divergent unit prices for the same (size,color) key resolve last-write-wins.
type Variant struct {
	Size      string
	Color     string
	Quantity  int
	UnitPrice float64
}

// Product is the aggregated view of all line items sharing a product name.
// TotalValue is the sum of quantity×unit price over the contributing lines,
// not the last line's price: the upstream UI overwrote the product total with
// a single unit price, which undercounts multi-line products.
type Product struct {
	Name          string
	TotalQuantity int
	TotalValue    float64
	ImageURL      string
	Variants      []Variant
}

// Aggregate merges line items into one Product per distinct name, preserving
// the order in which names first appear. Variants are keyed by (size, color)
// with quantities summed. Running Aggregate over a flattened copy of its own
// output yields identical totals.
func Aggregate(items []LineItem) []Product {
	index := make(map[string]int, len(items))
	out := make([]Product, 0, len(items))

	for _, it := range items {
		i, ok := index[it.Name]
		if !ok {
			i = len(out)
			index[it.Name] = i
			out = append(out, Product{Name: it.Name})
		}
		p := &out[i]
		p.TotalQuantity += it.Quantity
		p.TotalValue += it.Value()
		if p.ImageURL == "" {
			p.ImageURL = it.ImageURL
		}

		vi := -1
		for j := range p.Variants {
			if p.Variants[j].Size == it.Size && p.Variants[j].Color == it.Color {
				vi = j
				break
			}
		}
		if vi < 0 {
			p.Variants = append(p.Variants, Variant{Size: it.Size, Color: it.Color})
			vi = len(p.Variants) - 1
		}
		v := &p.Variants[vi]
		v.Quantity += it.Quantity
		v.UnitPrice = it.UnitPrice
	}

	return out
}
