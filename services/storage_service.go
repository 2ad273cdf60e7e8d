package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omoarwwa-coder/ayman-ai/models"
)

const profileKey = "current"

// Store is the persistence adapter for the three local records. Every call
// reads or writes a whole record; there is a single writer (the App).
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetUser returns nil, nil when no profile has been stored yet.
func (s *Store) GetUser(ctx context.Context) (*models.UserProfile, error) {
	var rec models.ProfileRecord
	err := s.db.WithContext(ctx).Where("slot = ?", profileKey).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &rec.Profile, nil
}

func (s *Store) SaveUser(ctx context.Context, user models.UserProfile) error {
	return saveUser(s.db.WithContext(ctx), user)
}

func saveUser(db *gorm.DB, user models.UserProfile) error {
	rec := models.ProfileRecord{Slot: profileKey, Profile: user, UpdatedAt: time.Now()}
	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// UpdateSubscription is a no-op returning nil, nil when no profile exists.
func (s *Store) UpdateSubscription(ctx context.Context, plan models.SubscriptionPlan) (*models.UserProfile, error) {
	user, err := s.GetUser(ctx)
	if err != nil || user == nil {
		return nil, err
	}
	user.SubscriptionPlan = plan
	if err := s.SaveUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetDailyLogs(ctx context.Context) ([]models.DailyLog, error) {
	var rows []models.DailyLogRecord
	if err := s.db.WithContext(ctx).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load daily logs: %w", err)
	}
	logs := make([]models.DailyLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, r.ToLog())
	}
	return logs, nil
}

// GetDailyLogsBetween returns the logs dated from..to inclusive.
func (s *Store) GetDailyLogsBetween(ctx context.Context, from, to string) ([]models.DailyLog, error) {
	var rows []models.DailyLogRecord
	err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load daily logs %s..%s: %w", from, to, err)
	}
	logs := make([]models.DailyLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, r.ToLog())
	}
	return logs, nil
}

// AddLogEntry appends to the log of the given date, creating it on first use.
func (s *Store) AddLogEntry(ctx context.Context, date string, entry models.LogEntry) (*models.DailyLog, error) {
	return appendLogEntry(s.db.WithContext(ctx), date, entry)
}

// AddLogEntryAndSaveUser appends the entry and, when user is non-nil, saves
// the profile in the same transaction. Either both writes land or neither.
func (s *Store) AddLogEntryAndSaveUser(ctx context.Context, date string, entry models.LogEntry, user *models.UserProfile) (*models.DailyLog, error) {
	var log *models.DailyLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if log, err = appendLogEntry(tx, date, entry); err != nil {
			return err
		}
		if user != nil {
			return saveUser(tx, *user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

func appendLogEntry(db *gorm.DB, date string, entry models.LogEntry) (*models.DailyLog, error) {
	var rec models.DailyLogRecord
	err := db.Where("date = ?", date).First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = models.DailyLogRecord{Date: date, Items: models.LogItems{}}
	case err != nil:
		return nil, fmt.Errorf("load daily log %s: %w", date, err)
	}

	log := rec.ToLog()
	log.Append(entry)
	rec.Items = log.Items
	rec.TotalCalories = log.TotalCalories
	rec.UpdatedAt = time.Now()

	if err := db.Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("save daily log %s: %w", date, err)
	}
	return &log, nil
}

func (s *Store) GetSavedRecipes(ctx context.Context) ([]models.SavedRecipe, error) {
	var rows []models.SavedRecipeRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load saved recipes: %w", err)
	}
	out := make([]models.SavedRecipe, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToSaved())
	}
	return out, nil
}

// SaveRecipe stores a copy of the recipe under a fresh id.
func (s *Store) SaveRecipe(ctx context.Context, recipe models.RecipeAnalysisResult) (*models.SavedRecipe, error) {
	rec := models.SavedRecipeRecord{
		ID:        uuid.NewString(),
		Recipe:    recipe,
		CreatedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("save recipe: %w", err)
	}
	saved := rec.ToSaved()
	return &saved, nil
}

// DeleteRecipe reports whether a record with that id existed.
func (s *Store) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SavedRecipeRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("delete recipe %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DefaultUser is the guest profile created on first launch.
func DefaultUser(today string, freeScans int) models.UserProfile {
	return models.UserProfile{
		ID:                  uuid.NewString(),
		Name:                "Guest User",
		Email:               "guest@example.com",
		Age:                 25,
		BirthYear:           1999,
		Gender:              models.GenderOther,
		Weight:              70,
		Height:              175,
		BMI:                 22.9,
		ActivityLevel:       models.ActivityModeratelyActive,
		HealthGoal:          models.GoalHealthierLifestyle,
		DietaryPreferences:  []string{},
		Allergies:           []string{},
		MedicalConditions:   []string{},
		SubscriptionPlan:    models.PlanFree,
		ScansRemainingToday: freeScans,
		LastScanDate:        today,
	}
}
