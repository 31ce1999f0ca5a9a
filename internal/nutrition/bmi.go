package nutrition

import (
	"math"

	"github.com/2beens/fitdiet/internal/profile"
)

const NotAvailable = "N/A"

type BMIClass struct {
	Category string `json:"category"`
	Risk     string `json:"risk"`
}

// CalculateBMI returns weight / height(m)^2 rounded to one decimal.
// ok is false (and the value 0) for missing or non-positive inputs.
func CalculateBMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 || math.IsNaN(weightKg) || math.IsNaN(heightCm) ||
		math.IsInf(weightKg, 0) || math.IsInf(heightCm, 0) {
		return 0, false
	}
	heightM := heightCm / 100
	return Round1(weightKg / (heightM * heightM)), true
}

// BMIFromProfile converts the profile units first (ft, lbs).
func BMIFromProfile(p *profile.UserProfile) (float64, bool) {
	if p == nil {
		return 0, false
	}
	heightCm, ok := p.HeightCm()
	if !ok {
		return 0, false
	}
	weightKg, ok := p.WeightKg()
	if !ok {
		return 0, false
	}
	return CalculateBMI(weightKg, heightCm)
}

// ClassifyBMI maps a BMI onto its category and comorbidity risk.
// The 0 sentinel (no BMI) maps to N/A.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi <= 0 || math.IsNaN(bmi):
		return BMIClass{Category: NotAvailable, Risk: NotAvailable}
	case bmi < 18.5:
		return BMIClass{Category: "Underweight", Risk: "Low"}
	case bmi < 25:
		return BMIClass{Category: "Normal Weight", Risk: "Average"}
	case bmi < 30:
		return BMIClass{Category: "Overweight", Risk: "Moderate"}
	default:
		return BMIClass{Category: "Obese", Risk: "High"}
	}
}
