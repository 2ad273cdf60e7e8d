package models

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "FREE"
	PlanPremium SubscriptionPlan = "PREMIUM"
)

// UserProfile is the single local user of the device.
type UserProfile struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Age                int              `json:"age"`
	BirthYear          int              `json:"birthYear"`
	Gender             Gender           `json:"gender"`
	Weight             float64          `json:"weight"` // kg
	Height             float64          `json:"height"` // cm
	BMI                float64          `json:"bmi"`
	ActivityLevel      ActivityLevel    `json:"activityLevel"`
	HealthGoal         HealthGoal       `json:"healthGoal"`
	DietaryPreferences []string         `json:"dietaryPreferences"`
	Allergies          []string         `json:"allergies"`
	MedicalConditions  []string         `json:"medicalConditions"`
	SubscriptionPlan   SubscriptionPlan `json:"subscriptionPlan"`
	// only meaningful on the FREE plan
	ScansRemainingToday int    `json:"scansRemainingToday"`
	LastScanDate        string `json:"lastScanDate"` // YYYY-MM-DD
}

func (u UserProfile) IsPremium() bool {
	return u.SubscriptionPlan == PlanPremium
}

// ProfileRecord stores the singleton profile as one JSON document.
type ProfileRecord struct {
	Slot      string      `gorm:"primaryKey;size:32"`
	Profile   UserProfile `gorm:"serializer:json;not null"`
	UpdatedAt time.Time
}

func (ProfileRecord) TableName() string { return "user_profiles" }
