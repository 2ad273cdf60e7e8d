package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/omoarwwa-coder/ayman-ai/models"
	"github.com/omoarwwa-coder/ayman-ai/utils"
)

// ProfileInput is a partial profile update: zero values and nil lists
// leave the stored field untouched, an empty list clears it.
type ProfileInput struct {
	Name               string               `json:"name"`
	Email              string               `json:"email"`
	BirthYear          int                  `json:"birthYear"`
	Gender             models.Gender        `json:"gender"`
	Weight             float64              `json:"weight"`
	Height             float64              `json:"height"`
	ActivityLevel      models.ActivityLevel `json:"activityLevel"`
	HealthGoal         models.HealthGoal    `json:"healthGoal"`
	DietaryPreferences *[]string            `json:"dietaryPreferences"`
	Allergies          *[]string            `json:"allergies"`
	MedicalConditions  *[]string            `json:"medicalConditions"`
}

// ApplyProfileInput returns the updated copy of user. Plan and quota
// fields are never touched here.
func ApplyProfileInput(user models.UserProfile, in ProfileInput, now time.Time) (models.UserProfile, error) {
	if in.Name = strings.TrimSpace(in.Name); in.Name != "" {
		user.Name = in.Name
	}
	if in.Email = strings.TrimSpace(in.Email); in.Email != "" {
		user.Email = in.Email
	}

	if in.BirthYear != 0 {
		age := utils.AgeFromBirthYear(in.BirthYear, now)
		if age <= 0 {
			return user, fmt.Errorf("%w: birth year %d", ErrInvalidInput, in.BirthYear)
		}
		user.BirthYear = in.BirthYear
		user.Age = age
	}

	if in.Gender != "" {
		switch in.Gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
			user.Gender = in.Gender
		default:
			return user, fmt.Errorf("%w: gender %q", ErrInvalidInput, in.Gender)
		}
	}
	if in.ActivityLevel != "" {
		if !in.ActivityLevel.Valid() {
			return user, fmt.Errorf("%w: activity level %q", ErrInvalidInput, in.ActivityLevel)
		}
		user.ActivityLevel = in.ActivityLevel
	}
	if in.HealthGoal != "" {
		if !in.HealthGoal.Valid() {
			return user, fmt.Errorf("%w: health goal %q", ErrInvalidInput, in.HealthGoal)
		}
		user.HealthGoal = in.HealthGoal
	}

	if in.Height > 0 {
		user.Height = in.Height
	}
	if in.Weight > 0 {
		user.Weight = in.Weight
	}
	if in.Height > 0 || in.Weight > 0 {
		bmi, err := utils.CalculateBMI(user.Height, user.Weight)
		if err != nil {
			return user, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.BMI = bmi
	}

	if in.DietaryPreferences != nil {
		user.DietaryPreferences = cleanList(*in.DietaryPreferences)
	}
	if in.Allergies != nil {
		user.Allergies = cleanList(*in.Allergies)
	}
	if in.MedicalConditions != nil {
		user.MedicalConditions = cleanList(*in.MedicalConditions)
	}
	return user, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
