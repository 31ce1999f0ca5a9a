package catalog

import (
	"errors"
	"strings"
)

const MaxSearchResults = 10

var ErrFoodNotFound = errors.New("food not found")

// FoodItem values are for the reference quantity in the name, e.g. "(1 cup cooked)".
type FoodItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Category string  `json:"category"`
}

// Catalog is read only after construction and safe for concurrent use.
type Catalog struct {
	items []FoodItem
}

func New(items []FoodItem) *Catalog {
	c := &Catalog{
		items: make([]FoodItem, len(items)),
	}
	copy(c.items, items)
	return c
}

// Default is the built-in indian food table.
func Default() *Catalog {
	return New(indianFoods)
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Search matches query against name and category, case-insensitively, and
// returns at most MaxSearchResults items in catalog order. A blank query
// matches nothing.
func (c *Catalog) Search(query string) []FoodItem {
	term := strings.ToLower(strings.TrimSpace(query))
	results := []FoodItem{}
	if term == "" {
		return results
	}

	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Category), term) {
			results = append(results, item)
			if len(results) == MaxSearchResults {
				break
			}
		}
	}
	return results
}

// ByCategory returns the items of exactly that category.
func (c *Catalog) ByCategory(category string) []FoodItem {
	results := []FoodItem{}
	for _, item := range c.items {
		if item.Category == category {
			results = append(results, item)
		}
	}
	return results
}

// Categories lists the distinct categories in the order first seen.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range c.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}

// Find returns the item with exactly that name, ignoring case.
func (c *Catalog) Find(name string) (FoodItem, error) {
	name = strings.TrimSpace(name)
	for _, item := range c.items {
		if strings.EqualFold(item.Name, name) {
			return item, nil
		}
	}
	return FoodItem{}, ErrFoodNotFound
}
