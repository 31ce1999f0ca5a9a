package generation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/fitdiet/internal/profile"
)

func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dietPlanPrompt(p *profile.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("Create a personalized Indian diet plan for:\n")
	fmt.Fprintf(&sb, "- Age: %s\n", p.Age)
	if cm, ok := p.HeightCm(); ok {
		fmt.Fprintf(&sb, "- Height: %s cm\n", formatMeasure(float64(int(cm*10+0.5))/10))
	} else {
		fmt.Fprintf(&sb, "- Height: %s %s\n", p.Height, p.HeightUnit)
	}
	if kg, ok := p.WeightKg(); ok {
		fmt.Fprintf(&sb, "- Weight: %s kg\n", formatMeasure(float64(int(kg*10+0.5))/10))
	} else {
		fmt.Fprintf(&sb, "- Weight: %s %s\n", p.Weight, p.WeightUnit)
	}
	if p.WorkoutLevel.IsFrequency() {
		fmt.Fprintf(&sb, "- Workout frequency: %s times per week\n", p.WorkoutLevel)
	} else {
		fmt.Fprintf(&sb, "- Activity level: %s\n", p.WorkoutLevel.Label())
	}
	if p.Gender != "" {
		fmt.Fprintf(&sb, "- Gender: %s\n", p.Gender)
	}
	fmt.Fprintf(&sb, "- Fitness goal: %s\n", p.FitnessGoal.Label())
	sb.WriteString(`
Please provide:
1. Breakfast options
2. Lunch options
3. Dinner options
4. Snack options
5. 3-4 practical nutrition tips

Focus on Indian cuisine with locally available ingredients. Keep portions realistic for the goal.

Respond ONLY with a JSON object using exactly this structure:
{
  "breakfast": "breakfast options",
  "lunch": "lunch options",
  "dinner": "dinner options",
  "snacks": "snack options",
  "tips": ["tip 1", "tip 2", "tip 3"]
}`)
	return sb.String()
}

func nutritionPrompt(query string) string {
	return fmt.Sprintf(`Provide detailed nutritional information for: "%s"

All values must be per 100g of the food.

Respond ONLY with a JSON object using exactly this structure:
{
  "name": "food name",
  "calories": 0,
  "protein": 0,
  "carbs": 0,
  "fat": 0,
  "fiber": 0,
  "serving_size": "100g"
}

Numbers must be plain numbers in grams (calories in kcal), without units.`, query)
}
