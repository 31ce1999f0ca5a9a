package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrEntryNotFound = errors.New("entry not found")
)

type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
)

var Meals = []Meal{MealBreakfast, MealLunch, MealDinner}

func ParseMeal(s string) (Meal, error) {
	m := Meal(strings.ToLower(strings.TrimSpace(s)))
	if m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown meal %q", ErrInvalidEntry, s)
}

func (m Meal) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// FoodEntry values are already scaled to the eaten quantity.
type FoodEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Meal     Meal      `json:"meal"`
	Food     string    `json:"food,omitempty"`
	Items    []Item    `json:"items,omitempty"`
	Calories int       `json:"calories"`
	Protein  float64   `json:"protein"`
	Carbs    float64   `json:"carbs"`
	Fat      float64   `json:"fat"`
}

// Title is the food name, or the item names joined for multi-item entries.
func (e FoodEntry) Title() string {
	if e.Food != "" {
		return e.Food
	}
	names := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		names = append(names, it.Name)
	}
	return strings.Join(names, ", ")
}

func (e FoodEntry) Validate() error {
	var problems []string
	if !e.Meal.Valid() {
		problems = append(problems, fmt.Sprintf("unknown meal %q", e.Meal))
	}
	if strings.TrimSpace(e.Food) == "" && len(e.Items) == 0 {
		problems = append(problems, "food name or items required")
	}
	for i, it := range e.Items {
		if strings.TrimSpace(it.Name) == "" {
			problems = append(problems, fmt.Sprintf("item %d has no name", i))
		}
	}
	if e.Calories < 0 {
		problems = append(problems, "calories must not be negative")
	}
	if e.Protein < 0 || e.Carbs < 0 || e.Fat < 0 {
		problems = append(problems, "macros must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidEntry, strings.Join(problems, "; "))
	}
	return nil
}

type WorkoutEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Exercise string    `json:"exercise"`
	Sets     string    `json:"sets"`
	Reps     string    `json:"reps"`
	Weight   string    `json:"weight"`
	Notes    string    `json:"notes"`
}

func (w WorkoutEntry) Validate() error {
	if strings.TrimSpace(w.Exercise) == "" {
		return fmt.Errorf("%w: exercise is required", ErrInvalidEntry)
	}
	return nil
}

// SameDay reports whether t falls on the same calendar day as now, both seen in loc.
func SameDay(t, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ty, tm, td := t.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	return ty == ny && tm == nm && td == nd
}

// OnDay returns the entries logged on the calendar day of now in loc.
func OnDay(entries []FoodEntry, now time.Time, loc *time.Location) []FoodEntry {
	var day []FoodEntry
	for _, e := range entries {
		if SameDay(e.Date, now, loc) {
			day = append(day, e)
		}
	}
	return day
}
