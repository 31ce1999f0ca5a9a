package generation

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

func parseObject(raw string) (gjson.Result, error) {
	if !gjson.Valid(raw) {
		return gjson.Result{}, fmt.Errorf("malformed JSON")
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("JSON is not an object")
	}
	return doc, nil
}

func requiredString(doc gjson.Result, field string, problems *[]string) string {
	v := doc.Get(field)
	if !v.Exists() {
		*problems = append(*problems, field+" is missing")
		return ""
	}
	if v.Type != gjson.String {
		*problems = append(*problems, field+" must be a string")
		return ""
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		*problems = append(*problems, field+" is empty")
	}
	return s
}

func requiredNumber(doc gjson.Result, field string, problems *[]string) float64 {
	v := doc.Get(field)
	if !v.Exists() {
		*problems = append(*problems, field+" is missing")
		return 0
	}
	return number(v, field, problems)
}

func optionalNumber(doc gjson.Result, field string, problems *[]string) float64 {
	v := doc.Get(field)
	if !v.Exists() || v.Type == gjson.Null {
		return 0
	}
	return number(v, field, problems)
}

func number(v gjson.Result, field string, problems *[]string) float64 {
	if v.Type != gjson.Number {
		*problems = append(*problems, field+" must be a number")
		return 0
	}
	if v.Float() < 0 {
		*problems = append(*problems, field+" must not be negative")
		return 0
	}
	return v.Float()
}

// parsePlanContent checks the extracted object has every diet plan field
// with the right type.
func parsePlanContent(raw string) (*PlanContent, []string, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, nil, err
	}

	var problems []string
	plan := &PlanContent{
		Breakfast: requiredString(doc, "breakfast", &problems),
		Lunch:     requiredString(doc, "lunch", &problems),
		Dinner:    requiredString(doc, "dinner", &problems),
		Snacks:    requiredString(doc, "snacks", &problems),
		Tips:      []string{},
	}

	tips := doc.Get("tips")
	switch {
	case !tips.Exists():
		problems = append(problems, "tips is missing")
	case !tips.IsArray():
		problems = append(problems, "tips must be an array")
	default:
		for i, tip := range tips.Array() {
			if tip.Type != gjson.String {
				problems = append(problems, fmt.Sprintf("tips[%d] must be a string", i))
				continue
			}
			if t := strings.TrimSpace(tip.String()); t != "" {
				plan.Tips = append(plan.Tips, t)
			}
		}
	}

	if len(problems) > 0 {
		return nil, problems, nil
	}
	return plan, nil, nil
}

func parseNutritionRecord(raw string) (*NutritionRecord, []string, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, nil, err
	}

	var problems []string
	rec := &NutritionRecord{
		Name:     requiredString(doc, "name", &problems),
		Calories: requiredNumber(doc, "calories", &problems),
		Protein:  requiredNumber(doc, "protein", &problems),
		Carbs:    requiredNumber(doc, "carbs", &problems),
		Fat:      requiredNumber(doc, "fat", &problems),
		Fiber:    optionalNumber(doc, "fiber", &problems),
	}
	if ss := doc.Get("serving_size"); ss.Exists() && ss.Type != gjson.Null {
		if ss.Type != gjson.String {
			problems = append(problems, "serving_size must be a string")
		} else {
			rec.ServingSize = strings.TrimSpace(ss.String())
		}
	}

	if len(problems) > 0 {
		return nil, problems, nil
	}
	return rec, nil, nil
}
