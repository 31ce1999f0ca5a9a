package dietplan

import (
	"fmt"
	"time"

	"github.com/2beens/fitdiet/internal/generation"
)

// MaxPlans is how many plans can be saved at once.
const MaxPlans = 3

type DietPlan struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Breakfast  string    `json:"breakfast"`
	Lunch      string    `json:"lunch"`
	Dinner     string    `json:"dinner"`
	Snacks     string    `json:"snacks"`
	Tips       []string  `json:"tips"`
	CreatedAt  time.Time `json:"createdAt"`
	IsExpanded bool      `json:"isExpanded"`
}

func newPlan(id string, existing int, content generation.PlanContent, createdAt time.Time) DietPlan {
	tips := make([]string, len(content.Tips))
	copy(tips, content.Tips)
	return DietPlan{
		ID:        id,
		Name:      fmt.Sprintf("Diet Plan %d", existing+1),
		Breakfast: content.Breakfast,
		Lunch:     content.Lunch,
		Dinner:    content.Dinner,
		Snacks:    content.Snacks,
		Tips:      tips,
		CreatedAt: createdAt,
	}
}

func (p DietPlan) clone() DietPlan {
	c := p
	c.Tips = make([]string, len(p.Tips))
	copy(c.Tips, p.Tips)
	return c
}
