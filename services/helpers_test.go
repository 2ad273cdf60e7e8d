package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/omoarwwa-coder/ayman-ai/config"
	"github.com/omoarwwa-coder/ayman-ai/models"
)

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

const today = "2025-03-01"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return NewStore(db)
}

// fakeGateway records calls and returns canned results.
type fakeGateway struct {
	mu sync.Mutex

	food      *models.FoodAnalysis
	recipe    *models.RecipeAnalysisResult
	answer    string
	places    PlacesResult
	err       error
	calls     int
	lastUser  models.UserProfile
	lastLang  string
	lastImage ImageInput
	// ctxErr is the request context's error as seen by the last call.
	ctxErr error
	// onCall runs inside every call, after it was recorded.
	onCall func()
}

func (f *fakeGateway) record(ctx context.Context, user models.UserProfile, lang string) {
	f.mu.Lock()
	f.calls++
	f.lastUser = user
	f.lastLang = lang
	f.ctxErr = ctx.Err()
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (f *fakeGateway) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGateway) AnalyzeFoodImage(ctx context.Context, img ImageInput, user models.UserProfile, lang string) (*models.FoodAnalysis, error) {
	f.record(ctx, user, lang)
	f.lastImage = img
	if f.err != nil {
		return nil, f.err
	}
	out := *f.food
	return &out, nil
}

func (f *fakeGateway) AnalyzeRecipe(ctx context.Context, _ RecipeInput, user models.UserProfile, lang string) (*models.RecipeAnalysisResult, error) {
	f.record(ctx, user, lang)
	if f.err != nil {
		return nil, f.err
	}
	out := *f.recipe
	return &out, nil
}

func (f *fakeGateway) MedicalConsult(ctx context.Context, _ string, user models.UserProfile, lang string) (string, error) {
	f.record(ctx, user, lang)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGateway) SearchNearbyPlaces(ctx context.Context, _, _ float64, lang string) PlacesResult {
	f.record(ctx, models.UserProfile{}, lang)
	return f.places
}

// failingStore wraps a Store and fails SaveUser once armed.
type failingStore struct {
	*Store
	failSaveUser bool
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) SaveUser(ctx context.Context, user models.UserProfile) error {
	if s.failSaveUser {
		return errDiskFull
	}
	return s.Store.SaveUser(ctx, user)
}

func (s *failingStore) AddLogEntryAndSaveUser(ctx context.Context, date string, entry models.LogEntry, user *models.UserProfile) (*models.DailyLog, error) {
	if s.failSaveUser && user != nil {
		return nil, errDiskFull
	}
	return s.Store.AddLogEntryAndSaveUser(ctx, date, entry, user)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(ev models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

type declinedPayment struct{}

func (declinedPayment) Purchase(context.Context, float64) (*Receipt, error) {
	return nil, ErrPaymentDeclined
}

func sampleFood(score int, kcal float64) *models.FoodAnalysis {
	return &models.FoodAnalysis{
		Nutrition: models.NutritionData{
			ProductName: "Oat Bar",
			Calories:    kcal,
			Sugar:       12,
			Fat:         7,
			Protein:     5,
			Carbs:       30,
			Salt:        0.2,
			Additives:   []string{"E322"},
		},
		Analysis: models.HealthAnalysis{
			Score:                 score,
			Benefits:              []string{"fibre"},
			ShortTermRisks:        []string{},
			LongTermRisks:         []string{},
			AllergyWarnings:       []string{},
			PortionRecommendation: "one bar",
			BestTimeToConsume:     "morning",
			HealthierAlternatives: []string{"apple"},
		},
	}
}

func sampleRecipe(name string, perServing float64) *models.RecipeAnalysisResult {
	return &models.RecipeAnalysisResult{
		RecipeName:          name,
		Servings:            2,
		TotalNutrition:      models.NutritionData{Calories: perServing * 2, Additives: []string{}},
		PerServingNutrition: models.NutritionData{Calories: perServing},
		HealthInsights:      []string{"high fibre"},
		Substitutions:       []models.Substitution{{Original: "cream", Better: "yogurt", Reason: "less fat"}},
		PreparationTips:     []string{"steam"},
		Score:               7,
	}
}

type appFixture struct {
	app    *App
	store  *failingStore
	gw     *fakeGateway
	events *recordingPublisher
}

// newTestApp builds an App over a fresh database. seed, when non-nil, is
// stored as the profile before Start.
func newTestApp(t *testing.T, seed *models.UserProfile, payments PaymentProvider) *appFixture {
	t.Helper()
	store := &failingStore{Store: newTestStore(t)}
	if seed != nil {
		require.NoError(t, store.SaveUser(context.Background(), *seed))
	}
	gw := &fakeGateway{}
	events := &recordingPublisher{}
	app := NewApp(AppOptions{
		Store:          store,
		Gateway:        gw,
		Payments:       payments,
		Events:         events,
		Logger:         zerolog.Nop(),
		FreeDailyScans: 3,
		DefaultLang:    "en",
		Now:            func() time.Time { return fixedNow },
	})
	require.NoError(t, app.Start(context.Background()))
	return &appFixture{app: app, store: store, gw: gw, events: events}
}

func freeUser(remaining int, lastScan string) *models.UserProfile {
	u := DefaultUser(lastScan, 3)
	u.ScansRemainingToday = remaining
	return &u
}
