package services

import (
	"fmt"
	"strings"

	"github.com/omoarwwa-coder/ayman-ai/models"
	"github.com/omoarwwa-coder/ayman-ai/utils"
)

func joinOrNone(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			cleaned = append(cleaned, it)
		}
	}
	if len(cleaned) == 0 {
		return "none"
	}
	return strings.Join(cleaned, ", ")
}

func languageLine(lang string) string {
	return fmt.Sprintf("Language: %s (%s). Write every text field in %s.", utils.LanguageName(lang), lang, utils.LanguageName(lang))
}

func buildImagePrompt(user models.UserProfile, lang string) string {
	var b strings.Builder
	b.WriteString("Analyze this food product image for nutrition information.\n")
	b.WriteString(languageLine(lang) + "\n")
	fmt.Fprintf(&b, "User profile: Goal: %s, BMI: %.1f (%s), Allergies: %s, Medical conditions: %s.\n",
		user.HealthGoal, user.BMI, utils.BMICategory(user.BMI), joinOrNone(user.Allergies), joinOrNone(user.MedicalConditions))
	b.WriteString("Extract precise nutritional values (grams, calories in kcal) and set isEstimation when values are inferred rather than read from a label.\n")
	b.WriteString("Identify chemical additives and their risks.\n")
	b.WriteString("Score the product from 1 to 10 for this user and give personalised benefits, short and long term risks and allergy warnings.")
	return b.String()
}

func buildRecipePrompt(in RecipeInput, user models.UserProfile, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze recipe. Name: %s. Ingredients: %s. Servings: %d.\n", in.Name, in.Ingredients, in.Servings)
	b.WriteString(languageLine(lang) + "\n")
	fmt.Fprintf(&b, "Personalize for user: Goal: %s, Allergies: %s, Medical conditions: %s.\n",
		user.HealthGoal, joinOrNone(user.Allergies), joinOrNone(user.MedicalConditions))
	b.WriteString("perServingNutrition must equal totalNutrition divided by the number of servings.\n")
	b.WriteString("Include detailed medical insights, healthier preparation methods and ingredient swaps. Score the recipe from 1 to 10.")
	return b.String()
}

func buildChatInstruction(user models.UserProfile, lang string) string {
	var b strings.Builder
	b.WriteString("You are a medical nutrition expert specializing in clinical dietetics.\n")
	fmt.Fprintf(&b, "Language: %s (%s). Respond only in %s.\n", utils.LanguageName(lang), lang, utils.LanguageName(lang))
	fmt.Fprintf(&b, "Context: the user is %d years old, %s, weight %.1f kg, height %.0f cm.\n",
		user.Age, user.Gender, user.Weight, user.Height)
	fmt.Fprintf(&b, "Conditions: %s.\n", joinOrNone(user.MedicalConditions))
	fmt.Fprintf(&b, "Allergies: %s.\n", joinOrNone(user.Allergies))
	b.WriteString("Provide evidence-based medical nutrition advice. ")
	b.WriteString("Always add a disclaimer that you are an AI and that the user should consult their physician.")
	return b.String()
}

func buildPlacesPrompt(lang string) string {
	return fmt.Sprintf("List the top 5 healthy restaurants or healthy grocery stores near my location. %s "+
		"For each, include the place name, its health focus and a brief reason why it is healthy.", languageLine(lang))
}
