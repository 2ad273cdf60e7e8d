package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/omoarwwa-coder/ayman-ai/models"
	"github.com/omoarwwa-coder/ayman-ai/utils"
)

const (
	NoticeScanFailed    = "Analysis failed. Please try a clearer image."
	NoticeRecipeFailed  = "Recipe analysis failed."
	NoticeChatFailed    = "Error fetching advice. Please try again."
	NoticePaymentFailed = "Payment failed. Please try again."
)

// Storage is the persistence adapter used by the App.
type Storage interface {
	GetUser(ctx context.Context) (*models.UserProfile, error)
	SaveUser(ctx context.Context, user models.UserProfile) error
	UpdateSubscription(ctx context.Context, plan models.SubscriptionPlan) (*models.UserProfile, error)
	GetDailyLogs(ctx context.Context) ([]models.DailyLog, error)
	AddLogEntry(ctx context.Context, date string, entry models.LogEntry) (*models.DailyLog, error)
	AddLogEntryAndSaveUser(ctx context.Context, date string, entry models.LogEntry, user *models.UserProfile) (*models.DailyLog, error)
	GetSavedRecipes(ctx context.Context) ([]models.SavedRecipe, error)
	SaveRecipe(ctx context.Context, recipe models.RecipeAnalysisResult) (*models.SavedRecipe, error)
	DeleteRecipe(ctx context.Context, id string) (bool, error)
}

// Analyzer is the analysis gateway used by the App.
type Analyzer interface {
	AnalyzeFoodImage(ctx context.Context, img ImageInput, user models.UserProfile, lang string) (*models.FoodAnalysis, error)
	AnalyzeRecipe(ctx context.Context, in RecipeInput, user models.UserProfile, lang string) (*models.RecipeAnalysisResult, error)
	MedicalConsult(ctx context.Context, query string, user models.UserProfile, lang string) (string, error)
	SearchNearbyPlaces(ctx context.Context, lat, lng float64, lang string) PlacesResult
}

type AppOptions struct {
	Store    Storage
	Gateway  Analyzer
	Payments PaymentProvider
	// Archive and Events are optional.
	Archive ImageArchive
	Events  EventPublisher
	Logger  zerolog.Logger

	FreeDailyScans int
	DefaultLang    string
	Now            func() time.Time
}

// App owns the UI state and routes analysis results into persistence.
// State mutations are serialised by mu; gateway and payment calls run
// without holding it so snapshots stay readable while a request is busy.
type App struct {
	store    Storage
	gateway  Analyzer
	payments PaymentProvider
	archive  ImageArchive
	events   EventPublisher
	logger   zerolog.Logger

	freeDailyScans int
	now            func() time.Time

	mu      sync.Mutex
	started bool
	state   models.AppState
	// seq numbers published snapshots so subscribers can drop stale ones.
	seq uint64
}

func NewApp(opts AppOptions) *App {
	lang, err := utils.NormalizeLang(opts.DefaultLang)
	if err != nil {
		lang = utils.DefaultLang
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	payments := opts.Payments
	if payments == nil {
		payments = NewSimulatedPayment(0)
	}

	return &App{
		store:          opts.Store,
		gateway:        opts.Gateway,
		payments:       payments,
		archive:        opts.Archive,
		events:         opts.Events,
		logger:         opts.Logger,
		freeDailyScans: opts.FreeDailyScans,
		now:            now,
		state: models.AppState{
			View:         models.ViewDashboard,
			Lang:         lang,
			RTL:          utils.IsRTL(lang),
			Logs:         []models.DailyLog{},
			SavedRecipes: []models.SavedRecipe{},
			Chat:         models.ChatState{Messages: []models.ChatMessage{}},
		},
	}
}

func (a *App) today() string {
	return utils.DayKey(a.now())
}

// Start loads the profile (creating the guest profile on first launch),
// the daily logs and the recipe book, and shows the dashboard.
func (a *App) Start(ctx context.Context) error {
	today := a.today()

	user, err := a.store.GetUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		u := DefaultUser(today, a.freeDailyScans)
		if err := a.store.SaveUser(ctx, u); err != nil {
			return err
		}
		a.logger.Info().Str("user_id", u.ID).Msg("app: created guest profile")
		user = &u
	}

	refreshed, changed := refreshQuota(*user, today, a.freeDailyScans)
	if changed {
		if err := a.store.SaveUser(ctx, refreshed); err != nil {
			return err
		}
	}

	logs, err := a.store.GetDailyLogs(ctx)
	if err != nil {
		return err
	}
	recipes, err := a.store.GetSavedRecipes(ctx)
	if err != nil {
		return err
	}

	return a.update(func(s *models.AppState) error {
		a.started = true
		s.View = models.ViewDashboard
		s.User = &refreshed
		s.Logs = logs
		s.SavedRecipes = recipes
		return nil
	})
}

// Snapshot returns a copy of the current state.
func (a *App) Snapshot() models.AppState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// StateEvent is the current snapshot as a state.changed event, numbered
// like the ones published after each mutation.
func (a *App) StateEvent() models.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := a.snapshotLocked()
	return models.Event{Kind: models.EventStateChanged, State: &snap, Seq: a.seq}
}

func (a *App) snapshotLocked() models.AppState {
	s := a.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	s.Logs = append([]models.DailyLog(nil), a.state.Logs...)
	s.SavedRecipes = append([]models.SavedRecipe(nil), a.state.SavedRecipes...)
	s.Chat.Messages = append([]models.ChatMessage(nil), a.state.Chat.Messages...)
	if s.CurrentAnalysis != nil {
		r := *s.CurrentAnalysis
		s.CurrentAnalysis = &r
	}
	if s.RecipeOverlay != nil {
		o := *s.RecipeOverlay
		s.RecipeOverlay = &o
	}
	return s
}

// update applies fn under the state lock and then publishes the new
// snapshot. fn's error is returned after publishing.
func (a *App) update(fn func(s *models.AppState) error) error {
	a.mu.Lock()
	err := fn(&a.state)
	snap := a.snapshotLocked()
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	a.publish(models.Event{Kind: models.EventStateChanged, State: &snap, Seq: seq})
	return err
}

// mutate is update for operations that require Start to have run.
func (a *App) mutate(fn func(s *models.AppState) error) error {
	return a.update(func(s *models.AppState) error {
		if !a.started || s.User == nil {
			return ErrNotStarted
		}
		return fn(s)
	})
}

func (a *App) publish(ev models.Event) {
	if a.events == nil {
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = a.now()
	}
	a.events.Publish(ev)
}

func (a *App) Navigate(view models.View) error {
	if !view.Valid() {
		return fmt.Errorf("%w: unknown view %q", ErrInvalidInput, view)
	}
	return a.update(func(s *models.AppState) error {
		s.View = view
		s.Notice = ""
		return nil
	})
}

func (a *App) SetLanguage(tag string) error {
	lang, err := utils.NormalizeLang(tag)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return a.update(func(s *models.AppState) error {
		s.Lang = lang
		s.RTL = utils.IsRTL(lang)
		return nil
	})
}

// beginAnalysis runs the entitlement gate. On success it marks the App
// busy and returns the profile and language to analyse with; ok is false
// when the upsell was shown instead.
func (a *App) beginAnalysis(ctx context.Context) (user models.UserProfile, lang string, ok bool, err error) {
	today := a.today()
	err = a.mutate(func(s *models.AppState) error {
		u, changed := refreshQuota(*s.User, today, a.freeDailyScans)
		if changed {
			if err := a.store.SaveUser(ctx, u); err != nil {
				return err
			}
			s.User = &u
		}
		if !canAnalyze(u) {
			s.ShowSubscription = true
			return nil
		}
		s.IsAnalyzing = true
		s.Notice = ""
		user, lang, ok = u, s.Lang, true
		return nil
	})
	return user, lang, ok, err
}

// chargedProfile is the profile after one successful analysis finished on
// today, or nil on the premium plan. The daily reset applies first so an
// analysis that completes after midnight is charged to the new day.
func (a *App) chargedProfile(user models.UserProfile, today string) *models.UserProfile {
	if user.IsPremium() {
		return nil
	}
	u, _ := refreshQuota(user, today, a.freeDailyScans)
	u = consumeScan(u, today)
	return &u
}

// chargeLocked records a successful analysis against a free user's quota.
// The in-memory profile only changes once the write succeeded.
func (a *App) chargeLocked(ctx context.Context, s *models.AppState, today string) error {
	charged := a.chargedProfile(*s.User, today)
	if charged == nil {
		return nil
	}
	if err := a.store.SaveUser(ctx, *charged); err != nil {
		return err
	}
	s.User = charged
	return nil
}

func (a *App) failAnalysis(notice string, cause error) {
	a.logger.Warn().Err(cause).Msg("app: analysis failed")
	_ = a.update(func(s *models.AppState) error {
		s.IsAnalyzing = false
		s.Notice = notice
		return nil
	})
	a.publish(models.Event{Kind: models.EventNoticeRaised, Message: notice})
}

// Scan analyses a product photo given as a data URI or bare base64. Once
// issued the analysis is not cancelled by the caller; the gateway's own
// timeout bounds it and a late result is still recorded.
func (a *App) Scan(ctx context.Context, image string) (models.Outcome, error) {
	ctx = context.WithoutCancel(ctx)
	data, contentType, err := utils.ParseDataURI(image)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, lang, ok, err := a.beginAnalysis(ctx)
	if err != nil {
		return models.Outcome{}, err
	}
	if !ok {
		return models.Outcome{Status: models.OutcomeUpsell}, nil
	}

	analysis, err := a.gateway.AnalyzeFoodImage(ctx, ImageInput{Data: data, MIMEType: contentType}, user, lang)
	if err != nil {
		a.failAnalysis(NoticeScanFailed, err)
		return models.Outcome{Status: models.OutcomeFailed, Notice: NoticeScanFailed}, nil
	}

	now := a.now()
	result := models.AnalysisResult{
		Nutrition: analysis.Nutrition,
		Analysis:  analysis.Analysis,
		Timestamp: utils.Timestamp(now),
	}
	if a.archive != nil {
		url, err := a.archive.Archive(ctx, data, contentType)
		if err != nil {
			a.logger.Warn().Err(err).Msg("app: scan image not archived")
		} else {
			result.ImageURL = url
		}
	}

	today := utils.DayKey(now)
	err = a.mutate(func(s *models.AppState) error {
		s.IsAnalyzing = false
		charged := a.chargedProfile(*s.User, today)
		day, err := a.store.AddLogEntryAndSaveUser(ctx, today, models.ScanEntry{Result: result}, charged)
		if err != nil {
			return err
		}
		s.Logs = upsertLog(s.Logs, *day)
		if charged != nil {
			s.User = charged
		}
		s.CurrentAnalysis = &result
		return nil
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("app: failed to record scan")
		return models.Outcome{}, err
	}

	if warnings := result.Analysis.AllergyWarnings; len(warnings) > 0 {
		a.publish(models.Event{
			Kind:     models.EventAllergyAlert,
			Message:  result.Nutrition.ProductName,
			Warnings: warnings,
		})
	}
	return models.Outcome{Status: models.OutcomeCompleted}, nil
}

// AnalyzeRecipe analyses a typed recipe and opens the recipe result.
func (a *App) AnalyzeRecipe(ctx context.Context, in RecipeInput) (models.Outcome, error) {
	ctx = context.WithoutCancel(ctx)
	in.Name = strings.TrimSpace(in.Name)
	in.Ingredients = strings.TrimSpace(in.Ingredients)
	switch {
	case in.Name == "":
		return models.Outcome{}, fmt.Errorf("%w: recipe name is required", ErrInvalidInput)
	case in.Ingredients == "":
		return models.Outcome{}, fmt.Errorf("%w: ingredients are required", ErrInvalidInput)
	case in.Servings < 1:
		return models.Outcome{}, fmt.Errorf("%w: servings must be at least 1", ErrInvalidInput)
	}

	user, lang, ok, err := a.beginAnalysis(ctx)
	if err != nil {
		return models.Outcome{}, err
	}
	if !ok {
		return models.Outcome{Status: models.OutcomeUpsell}, nil
	}

	recipe, err := a.gateway.AnalyzeRecipe(ctx, in, user, lang)
	if err != nil {
		a.failAnalysis(NoticeRecipeFailed, err)
		return models.Outcome{Status: models.OutcomeFailed, Notice: NoticeRecipeFailed}, nil
	}

	now := a.now()
	result := *recipe
	result.Timestamp = utils.Timestamp(now)

	err = a.mutate(func(s *models.AppState) error {
		s.IsAnalyzing = false
		if err := a.chargeLocked(ctx, s, utils.DayKey(now)); err != nil {
			return err
		}
		s.RecipeOverlay = &models.RecipeOverlay{
			Result: result,
			Saved:  hasRecipeNamed(s.SavedRecipes, result.RecipeName),
		}
		return nil
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("app: failed to record recipe analysis")
		return models.Outcome{}, err
	}
	return models.Outcome{Status: models.OutcomeCompleted}, nil
}

// AddRecipeToLog records one serving of the open recipe in today's log
// and returns to the dashboard.
func (a *App) AddRecipeToLog(ctx context.Context) error {
	today := a.today()
	return a.mutate(func(s *models.AppState) error {
		if s.RecipeOverlay == nil {
			return ErrNoRecipeOverlay
		}
		day, err := a.store.AddLogEntry(ctx, today, models.RecipeEntry{Recipe: s.RecipeOverlay.Result})
		if err != nil {
			return err
		}
		s.Logs = upsertLog(s.Logs, *day)
		s.RecipeOverlay = nil
		s.View = models.ViewDashboard
		return nil
	})
}

// SaveRecipeToBook stores the open recipe; the overlay stays open.
func (a *App) SaveRecipeToBook(ctx context.Context) (*models.SavedRecipe, error) {
	var saved *models.SavedRecipe
	err := a.mutate(func(s *models.AppState) error {
		o := s.RecipeOverlay
		if o == nil {
			return ErrNoRecipeOverlay
		}
		if o.ReadOnly || o.Saved {
			return ErrReadOnlyRecipe
		}
		rec, err := a.store.SaveRecipe(ctx, o.Result)
		if err != nil {
			return err
		}
		s.SavedRecipes = append(s.SavedRecipes, *rec)
		updated := *o
		updated.Saved = true
		updated.SavedID = rec.ID
		s.RecipeOverlay = &updated
		saved = rec
		return nil
	})
	return saved, err
}

// SelectSavedRecipe opens a recipe from the book in read-only mode.
func (a *App) SelectSavedRecipe(id string) error {
	return a.mutate(func(s *models.AppState) error {
		for _, r := range s.SavedRecipes {
			if r.ID == id {
				s.RecipeOverlay = &models.RecipeOverlay{
					Result:   r.RecipeAnalysisResult,
					SavedID:  r.ID,
					Saved:    true,
					ReadOnly: true,
				}
				return nil
			}
		}
		return fmt.Errorf("%w: recipe %s", ErrNotFound, id)
	})
}

func (a *App) DeleteSavedRecipe(ctx context.Context, id string) error {
	return a.mutate(func(s *models.AppState) error {
		ok, err := a.store.DeleteRecipe(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: recipe %s", ErrNotFound, id)
		}
		kept := make([]models.SavedRecipe, 0, len(s.SavedRecipes))
		for _, r := range s.SavedRecipes {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		s.SavedRecipes = kept
		if s.RecipeOverlay != nil && s.RecipeOverlay.SavedID == id {
			s.RecipeOverlay = nil
		}
		return nil
	})
}

func (a *App) CloseOverlay(kind models.OverlayKind) error {
	return a.update(func(s *models.AppState) error {
		switch kind {
		case models.OverlayAnalysis:
			s.CurrentAnalysis = nil
		case models.OverlayRecipe:
			s.RecipeOverlay = nil
		case models.OverlaySubscription:
			s.ShowSubscription = false
		default:
			return fmt.Errorf("%w: unknown overlay %q", ErrInvalidInput, kind)
		}
		return nil
	})
}

func (a *App) OpenSubscription() error {
	return a.update(func(s *models.AppState) error {
		s.ShowSubscription = true
		return nil
	})
}

// Upgrade charges the selected billing period and switches the profile to
// PREMIUM. A declined payment leaves the plan unchanged.
func (a *App) Upgrade(ctx context.Context, billing Billing) (*Receipt, error) {
	amount, err := billing.Price()
	if err != nil {
		return nil, err
	}
	if err := a.mutate(func(*models.AppState) error { return nil }); err != nil {
		return nil, err
	}

	receipt, err := a.payments.Purchase(ctx, amount)
	if err != nil {
		a.logger.Warn().Err(err).Float64("amount", amount).Msg("app: payment failed")
		_ = a.update(func(s *models.AppState) error {
			s.Notice = NoticePaymentFailed
			return nil
		})
		if !errors.Is(err, ErrPaymentDeclined) {
			err = fmt.Errorf("%w: %w", ErrPaymentDeclined, err)
		}
		return nil, err
	}

	err = a.mutate(func(s *models.AppState) error {
		user, err := a.store.UpdateSubscription(ctx, models.PlanPremium)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotStarted
		}
		s.User = user
		s.ShowSubscription = false
		s.Notice = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info().Str("receipt", receipt.ID).Str("billing", string(billing)).Msg("app: upgraded to premium")
	return receipt, nil
}

// SendChat asks the nutrition assistant. Blank questions are ignored and
// return a nil message.
func (a *App) SendChat(ctx context.Context, query string) (*models.ChatMessage, error) {
	ctx = context.WithoutCancel(ctx)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var (
		user models.UserProfile
		lang string
	)
	err := a.mutate(func(s *models.AppState) error {
		s.Chat.Messages = append(s.Chat.Messages, models.ChatMessage{Role: models.ChatRoleUser, Text: query})
		s.Chat.Loading = true
		user, lang = *s.User, s.Lang
		return nil
	})
	if err != nil {
		return nil, err
	}

	answer, err := a.gateway.MedicalConsult(ctx, query, user, lang)
	if err != nil {
		a.logger.Warn().Err(err).Msg("app: chat failed")
		answer = NoticeChatFailed
	}
	reply := models.ChatMessage{Role: models.ChatRoleAI, Text: answer}

	_ = a.update(func(s *models.AppState) error {
		s.Chat.Messages = append(s.Chat.Messages, reply)
		s.Chat.Loading = false
		return nil
	})
	return &reply, nil
}

func (a *App) SearchPlaces(ctx context.Context, lat, lng float64) (PlacesResult, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return PlacesResult{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	a.mu.Lock()
	lang := a.state.Lang
	a.mu.Unlock()
	return a.gateway.SearchNearbyPlaces(ctx, lat, lng, lang), nil
}

func (a *App) UpdateProfile(ctx context.Context, in ProfileInput) (*models.UserProfile, error) {
	var out models.UserProfile
	err := a.mutate(func(s *models.AppState) error {
		updated, err := ApplyProfileInput(*s.User, in, a.now())
		if err != nil {
			return err
		}
		if err := a.store.SaveUser(ctx, updated); err != nil {
			return err
		}
		s.User = &updated
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard reports today's progress. The quota shown reflects a pending
// daily reset even before it is persisted.
func (a *App) Dashboard() (models.DashboardSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started || a.state.User == nil {
		return models.DashboardSummary{}, ErrNotStarted
	}
	today := a.today()
	user, _ := refreshQuota(*a.state.User, today, a.freeDailyScans)
	return BuildDashboard(user, a.state.Logs, today), nil
}

// Logs returns the in-memory daily logs ordered by date.
func (a *App) Logs() []models.DailyLog {
	return a.Snapshot().Logs
}

// upsertLog replaces the log with the same date or inserts it keeping the
// slice ordered by date.
func upsertLog(logs []models.DailyLog, day models.DailyLog) []models.DailyLog {
	out := make([]models.DailyLog, 0, len(logs)+1)
	inserted := false
	for _, l := range logs {
		switch {
		case l.Date == day.Date:
			out = append(out, day)
			inserted = true
			continue
		case !inserted && l.Date > day.Date:
			out = append(out, day)
			inserted = true
		}
		out = append(out, l)
	}
	if !inserted {
		out = append(out, day)
	}
	return out
}

func hasRecipeNamed(recipes []models.SavedRecipe, name string) bool {
	for _, r := range recipes {
		if r.RecipeName == name {
			return true
		}
	}
	return false
}

// SavedRecipe looks a recipe up in the in-memory book.
func (a *App) SavedRecipe(id string) (*models.SavedRecipe, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.state.SavedRecipes {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, id)
}
