package domain

// Cart maps product ID -> size -> quantity. Quantities are always positive:
// setting a line to zero or less removes it entirely.
type Cart map[string]map[string]int

func NewCart() Cart {
	return make(Cart)
}

// Add increments the quantity for the (id, size) pair, creating nested
// entries as needed.
func (c Cart) Add(id, size string) {
	sizes, ok := c[id]
	if !ok {
		sizes = make(map[string]int)
		c[id] = sizes
	}
	sizes[size]++
}

// SetQuantity sets the quantity for the (id, size) pair directly. A quantity
// of zero or less removes the entry; an emptied product is pruned.
func (c Cart) SetQuantity(id, size string, quantity int) {
	if quantity <= 0 {
		if sizes, ok := c[id]; ok {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(c, id)
			}
		}
		return
	}

	sizes, ok := c[id]
	if !ok {
		sizes = make(map[string]int)
		c[id] = sizes
	}
	sizes[size] = quantity
}

// Quantity returns the quantity for the (id, size) pair, zero if absent.
func (c Cart) Quantity(id, size string) int {
	return c[id][size]
}

// Count sums all quantities across every product and size.
func (c Cart) Count() int {
	total := 0
	for _, sizes := range c {
		for _, qty := range sizes {
			total += qty
		}
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Clone returns a deep copy so snapshots survive later mutations.
func (c Cart) Clone() Cart {
	clone := make(Cart, len(c))
	for id, sizes := range c {
		cloned := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			cloned[size] = qty
		}
		clone[id] = cloned
	}
	return clone
}
