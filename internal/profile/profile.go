package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidProfile = errors.New("invalid profile")

const BirthdayLayout = "2006-01-02"

type HeightUnit string

const (
	HeightCm HeightUnit = "cm"
	HeightFt HeightUnit = "ft"
)

type WeightUnit string

const (
	WeightKg  WeightUnit = "kg"
	WeightLbs WeightUnit = "lbs"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type FitnessGoal string

const (
	GoalLoseWeight  FitnessGoal = "lose_weight"
	GoalGainWeight  FitnessGoal = "gain_weight"
	GoalMaintain    FitnessGoal = "maintain"
	GoalBuildMuscle FitnessGoal = "build_muscle"
)

// legacy spellings still found in older stored profiles
var goalAliases = map[string]FitnessGoal{
	"weight_loss": GoalLoseWeight,
	"muscle_gain": GoalGainWeight,
	"maintenance": GoalMaintain,
}

var goalLabels = map[FitnessGoal]string{
	GoalLoseWeight:  "Lose Weight",
	GoalGainWeight:  "Gain Weight",
	GoalMaintain:    "Maintain",
	GoalBuildMuscle: "Build Muscle",
}

// ParseFitnessGoal accepts canonical values and legacy aliases,
// case-insensitively, and always returns the canonical goal.
func ParseFitnessGoal(s string) (FitnessGoal, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if goal, ok := goalAliases[v]; ok {
		return goal, nil
	}
	goal := FitnessGoal(v)
	if _, ok := goalLabels[goal]; ok {
		return goal, nil
	}
	return "", fmt.Errorf("%w: unknown fitness goal %q", ErrInvalidProfile, s)
}

func (g FitnessGoal) Label() string {
	if l, ok := goalLabels[g]; ok {
		return l
	}
	return string(g)
}

type WorkoutLevel string

const (
	WorkoutLevel1To2 WorkoutLevel = "1-2"
	WorkoutLevel3To4 WorkoutLevel = "3-4"
	WorkoutLevel5To6 WorkoutLevel = "5-6"

	ActivitySedentary  WorkoutLevel = "sedentary"
	ActivityLowActive  WorkoutLevel = "low_active"
	ActivityActive     WorkoutLevel = "active"
	ActivityVeryActive WorkoutLevel = "very_active"
)

var workoutLevelLabels = map[WorkoutLevel]string{
	WorkoutLevel1To2:   "1-2 times a week (Beginner)",
	WorkoutLevel3To4:   "3-4 times a week (Intermediate)",
	WorkoutLevel5To6:   "5-6 times a week (Advanced)",
	ActivitySedentary:  "Sedentary",
	ActivityLowActive:  "Low Active",
	ActivityActive:     "Active",
	ActivityVeryActive: "Very Active",
}

func ParseWorkoutLevel(s string) (WorkoutLevel, error) {
	level := WorkoutLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := workoutLevelLabels[level]; ok {
		return level, nil
	}
	return "", fmt.Errorf("%w: unknown workout level %q", ErrInvalidProfile, s)
}

func (l WorkoutLevel) Label() string {
	if label, ok := workoutLevelLabels[l]; ok {
		return label
	}
	return string(l)
}

// IsFrequency reports whether the level is a times-per-week value.
func (l WorkoutLevel) IsFrequency() bool {
	switch l {
	case WorkoutLevel1To2, WorkoutLevel3To4, WorkoutLevel5To6:
		return true
	}
	return false
}

// UserProfile is stored as a whole and replaced as a whole.
type UserProfile struct {
	Name         string       `json:"name"`
	Height       string       `json:"height"`
	HeightUnit   HeightUnit   `json:"heightUnit,omitempty"`
	Weight       string       `json:"weight"`
	WeightUnit   WeightUnit   `json:"weightUnit,omitempty"`
	Age          string       `json:"age"`
	Birthday     string       `json:"birthday,omitempty"`
	Gender       Gender       `json:"gender,omitempty"`
	WorkoutLevel WorkoutLevel `json:"workoutLevel"`
	FitnessGoal  FitnessGoal  `json:"fitnessGoal"`
}

// Normalize fills defaults (units, age from birthday) and canonicalizes
// the enum fields. Unknown enum values are left for Validate to report.
func (p *UserProfile) Normalize(now time.Time) {
	p.Name = strings.TrimSpace(p.Name)
	p.Height = strings.TrimSpace(p.Height)
	p.Weight = strings.TrimSpace(p.Weight)
	p.Age = strings.TrimSpace(p.Age)
	p.Birthday = strings.TrimSpace(p.Birthday)

	if p.HeightUnit == "" {
		p.HeightUnit = HeightCm
	}
	p.HeightUnit = HeightUnit(strings.ToLower(string(p.HeightUnit)))
	if p.WeightUnit == "" {
		p.WeightUnit = WeightKg
	}
	p.WeightUnit = WeightUnit(strings.ToLower(string(p.WeightUnit)))
	p.Gender = Gender(strings.ToLower(strings.TrimSpace(string(p.Gender))))

	if goal, err := ParseFitnessGoal(string(p.FitnessGoal)); err == nil {
		p.FitnessGoal = goal
	}
	if level, err := ParseWorkoutLevel(string(p.WorkoutLevel)); err == nil {
		p.WorkoutLevel = level
	}

	if p.Age == "" && p.Birthday != "" {
		if age, err := AgeFromBirthday(p.Birthday, now); err == nil {
			p.Age = strconv.Itoa(age)
		}
	}
}

// Validate reports every missing or malformed field at once.
func (p *UserProfile) Validate() error {
	var problems []string

	if p.Name == "" {
		problems = append(problems, "name is required")
	}
	if v, err := strconv.ParseFloat(p.Height, 64); err != nil || v <= 0 {
		problems = append(problems, "height must be a positive number")
	}
	if v, err := strconv.ParseFloat(p.Weight, 64); err != nil || v <= 0 {
		problems = append(problems, "weight must be a positive number")
	}
	if v, err := strconv.Atoi(p.Age); err != nil || v <= 0 {
		problems = append(problems, "age (or birthday) is required")
	}
	switch p.HeightUnit {
	case HeightCm, HeightFt:
	default:
		problems = append(problems, fmt.Sprintf("unknown height unit %q", p.HeightUnit))
	}
	switch p.WeightUnit {
	case WeightKg, WeightLbs:
	default:
		problems = append(problems, fmt.Sprintf("unknown weight unit %q", p.WeightUnit))
	}
	switch p.Gender {
	case "", GenderMale, GenderFemale, GenderOther:
	default:
		problems = append(problems, fmt.Sprintf("unknown gender %q", p.Gender))
	}
	if _, ok := workoutLevelLabels[p.WorkoutLevel]; !ok {
		problems = append(problems, "workout level is required")
	}
	if _, ok := goalLabels[p.FitnessGoal]; !ok {
		problems = append(problems, "fitness goal is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(problems, "; "))
	}
	return nil
}

// HeightCm returns the height converted to centimeters.
func (p *UserProfile) HeightCm() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.Height), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if p.HeightUnit == HeightFt {
		return v * 30.48, true
	}
	return v, true
}

// WeightKg returns the weight converted to kilograms.
func (p *UserProfile) WeightKg() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.Weight), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if p.WeightUnit == WeightLbs {
		return v * 0.45359237, true
	}
	return v, true
}

func AgeFromBirthday(birthday string, now time.Time) (int, error) {
	b, err := time.ParseInLocation(BirthdayLayout, birthday, now.Location())
	if err != nil {
		return 0, fmt.Errorf("parse birthday: %w", err)
	}
	if b.After(now) {
		return 0, fmt.Errorf("birthday %s is in the future", birthday)
	}

	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age, nil
}
