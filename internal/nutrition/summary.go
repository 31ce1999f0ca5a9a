package nutrition

import (
	"math"
	"time"

	"github.com/2beens/fitdiet/internal/ledger"

	log "github.com/sirupsen/logrus"
)

const DefaultCalorieTarget = 2000

type MealTotals struct {
	Total     int `json:"totalCalories"`
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
}

type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

type Summary struct {
	Calories MealTotals         `json:"calories"`
	Macros   Macros             `json:"macros"`
	Entries  []ledger.FoodEntry `json:"entries"`
}

// DailySummary sums calories per meal and macros over the entries logged on
// the calendar day of now (both seen in loc). Entries with an unknown meal
// are left out of every total.
func DailySummary(entries []ledger.FoodEntry, now time.Time, loc *time.Location) Summary {
	s := Summary{
		Entries: []ledger.FoodEntry{},
	}

	for _, e := range ledger.OnDay(entries, now, loc) {
		switch e.Meal {
		case ledger.MealBreakfast:
			s.Calories.Breakfast += e.Calories
		case ledger.MealLunch:
			s.Calories.Lunch += e.Calories
		case ledger.MealDinner:
			s.Calories.Dinner += e.Calories
		default:
			log.Debugf("food entry %s has unknown meal [%s], skipped", e.ID, e.Meal)
			continue
		}
		s.Macros.Protein += e.Protein
		s.Macros.Carbs += e.Carbs
		s.Macros.Fat += e.Fat
		s.Entries = append(s.Entries, e)
	}

	s.Calories.Total = s.Calories.Breakfast + s.Calories.Lunch + s.Calories.Dinner
	s.Macros.Protein = Round1(s.Macros.Protein)
	s.Macros.Carbs = Round1(s.Macros.Carbs)
	s.Macros.Fat = Round1(s.Macros.Fat)

	return s
}

// Progress is total/target capped at 1. Bad targets and non-positive
// totals give 0.
func Progress(total, target float64) float64 {
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return 0
	}
	if total <= 0 || math.IsNaN(total) {
		return 0
	}
	return math.Min(total/target, 1)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
