package models

type HealthGoal string

const (
	GoalLoseWeight         HealthGoal = "Lose Weight"
	GoalGainMuscle         HealthGoal = "Gain Muscle"
	GoalMaintain           HealthGoal = "Maintain Weight"
	GoalHealthierLifestyle HealthGoal = "Healthier Lifestyle"
)

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "Sedentary"
	ActivityLightlyActive    ActivityLevel = "Lightly Active"
	ActivityModeratelyActive ActivityLevel = "Moderately Active"
	ActivityVeryActive       ActivityLevel = "Very Active"
	ActivityExtremelyActive  ActivityLevel = "Extremely Active"
)

func (g HealthGoal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalHealthierLifestyle:
		return true
	}
	return false
}

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive, ActivityVeryActive, ActivityExtremelyActive:
		return true
	}
	return false
}
