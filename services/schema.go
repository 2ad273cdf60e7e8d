package services

import (
	"fmt"
	"math"

	"google.golang.org/genai"
)

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

var (
	str     = &genai.Schema{Type: genai.TypeString}
	num     = &genai.Schema{Type: genai.TypeNumber}
	integer = &genai.Schema{Type: genai.TypeInteger}
	boolean = &genai.Schema{Type: genai.TypeBoolean}
)

var nutritionSchema = object(map[string]*genai.Schema{
	"nutrition": object(map[string]*genai.Schema{
		"productName":  str,
		"calories":     num,
		"sugar":        num,
		"fat":          num,
		"protein":      num,
		"carbs":        num,
		"salt":         num,
		"additives":    arrayOf(str),
		"isEstimation": boolean,
	}, "productName", "calories", "sugar", "fat", "protein", "carbs", "salt", "additives", "isEstimation"),
	"analysis": object(map[string]*genai.Schema{
		"score":                 integer,
		"benefits":              arrayOf(str),
		"shortTermRisks":        arrayOf(str),
		"longTermRisks":         arrayOf(str),
		"allergyWarnings":       arrayOf(str),
		"portionRecommendation": str,
		"bestTimeToConsume":     str,
		"healthierAlternatives": arrayOf(str),
	}, "score", "benefits", "shortTermRisks", "longTermRisks", "allergyWarnings", "portionRecommendation", "bestTimeToConsume", "healthierAlternatives"),
}, "nutrition", "analysis")

var recipeSchema = object(map[string]*genai.Schema{
	"recipeName": str,
	"servings":   integer,
	"totalNutrition": object(map[string]*genai.Schema{
		"calories":  num,
		"sugar":     num,
		"fat":       num,
		"protein":   num,
		"carbs":     num,
		"salt":      num,
		"additives": arrayOf(str),
	}, "calories", "sugar", "fat", "protein", "carbs", "salt", "additives"),
	"perServingNutrition": object(map[string]*genai.Schema{
		"calories": num,
		"sugar":    num,
		"fat":      num,
		"protein":  num,
		"carbs":    num,
		"salt":     num,
	}, "calories", "sugar", "fat", "protein", "carbs", "salt"),
	"healthInsights": arrayOf(str),
	"substitutions": arrayOf(object(map[string]*genai.Schema{
		"original": str,
		"better":   str,
		"reason":   str,
	}, "original", "better", "reason")),
	"preparationTips": arrayOf(str),
	"score":           integer,
}, "recipeName", "servings", "totalNutrition", "perServingNutrition", "healthInsights", "substitutions", "preparationTips", "score")

// validateSchema checks a value decoded by encoding/json into interface{}
// against the responseSchema sent with the request: required keys present
// and non-null, kinds matching.
func validateSchema(s *genai.Schema, v any) error {
	return validateAt(s, "$", v)
}

func validateAt(s *genai.Schema, path string, v any) error {
	switch s.Type {
	case genai.TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		for _, key := range s.Required {
			if val, ok := obj[key]; !ok || val == nil {
				return fmt.Errorf("%s.%s: required field missing", path, key)
			}
		}
		for key, prop := range s.Properties {
			val, ok := obj[key]
			if !ok || val == nil {
				continue
			}
			if err := validateAt(prop, path+"."+key, val); err != nil {
				return err
			}
		}
	case genai.TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		if s.Items == nil {
			return nil
		}
		for i, item := range arr {
			if err := validateAt(s.Items, fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	case genai.TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected string", path)
		}
	case genai.TypeNumber:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("%s: expected number", path)
		}
	case genai.TypeInteger:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("%s: expected integer", path)
		}
	case genai.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s: expected boolean", path)
		}
	}
	return nil
}
