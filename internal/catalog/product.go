package catalog

type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Catalog is an ordered product list. Order is insertion order.
type Catalog []Product

func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

func (c Catalog) IndexOf(id int64) int {
	for i, p := range c {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (c Catalog) Has(id int64) bool {
	return c.IndexOf(id) >= 0
}

// Seed is used when storage holds no catalog or an empty one.
func Seed() Catalog {
	return Catalog{
		{ID: 1757236679491, Name: "Laptop", Price: 75000},
		{ID: 1757236679442, Name: "Phone", Price: 30000},
	}
}
