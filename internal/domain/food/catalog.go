package food

import (
	"fmt"
	"strings"
)

// Nutrients holds macronutrient values per 100 g.
type Nutrients struct {
	Carb         float64 `json:"carb" yaml:"carb"`
	Protein      float64 `json:"protein" yaml:"protein"`
	Fat          float64 `json:"fat" yaml:"fat"`
	DietaryFiber float64 `json:"dietaryFiber" yaml:"dietaryFiber"`
}

// Item is one entry of the food table.
type Item struct {
	Key       string    `json:"key" yaml:"key"`
	Label     string    `json:"label" yaml:"label"`
	Nutrients Nutrients `json:"nutrients" yaml:"nutrients"`
}

// Catalog is an immutable lookup table from food key to nutrient record.
type Catalog struct {
	items []Item
	index map[string]int
}

// NewCatalog validates items and builds a catalog preserving their order.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, item := range items {
		item.Key = strings.TrimSpace(item.Key)
		if item.Key == "" {
			return nil, fmt.Errorf("food item %d: key cannot be empty", i)
		}
		if _, dup := c.index[item.Key]; dup {
			return nil, fmt.Errorf("food item %q: duplicate key", item.Key)
		}
		if err := item.Nutrients.validate(); err != nil {
			return nil, fmt.Errorf("food item %q: %w", item.Key, err)
		}
		if strings.TrimSpace(item.Label) == "" {
			item.Label = item.Key
		}
		c.index[item.Key] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// Lookup returns the item registered under key.
func (c *Catalog) Lookup(key string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	idx, ok := c.index[strings.TrimSpace(key)]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Items returns a copy of the table in insertion order.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

func (n Nutrients) validate() error {
	values := map[string]float64{
		"carb":         n.Carb,
		"protein":      n.Protein,
		"fat":          n.Fat,
		"dietaryFiber": n.DietaryFiber,
	}
	for name, v := range values {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	return nil
}

// DefaultCatalog returns the built-in food table.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultItems())
	if err != nil {
		panic(err)
	}
	return c
}

func defaultItems() []Item {
	return []Item{
		{Key: "glucose_solution", Label: "Glucose Solution", Nutrients: Nutrients{Carb: 100}},
		{Key: "rice_super_kernel", Label: "Rice - Super kernel", Nutrients: Nutrients{Carb: 28, Protein: 2.7, Fat: 0.3, DietaryFiber: 0.4}},
		{Key: "rathu_suduru", Label: "Rathu Suduru", Nutrients: Nutrients{Carb: 26, Protein: 2.4, Fat: 0.7, DietaryFiber: 1.2}},
		{Key: "garlic_bee_honey", Label: "Garlic - Bee honey", Nutrients: Nutrients{Carb: 82, Protein: 0.3, DietaryFiber: 0.2}},
		{Key: "white_bread", Label: "White Bread", Nutrients: Nutrients{Carb: 49, Protein: 8, Fat: 3.2, DietaryFiber: 2.7}},
		{Key: "kurakkan_bread", Label: "Kurakkan Bread", Nutrients: Nutrients{Carb: 45, Protein: 7, Fat: 5, DietaryFiber: 4}},
	}
}
