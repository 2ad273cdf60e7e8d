package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omoarwwa-coder/ayman-ai/models"
	"github.com/omoarwwa-coder/ayman-ai/utils"
)

const jpegDataURI = "data:image/jpeg;base64,/9j/4AAQ"

func TestApp_StartCreatesGuestProfile(t *testing.T) {
	f := newTestApp(t, nil, nil)

	st := f.app.Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, "Guest User", st.User.Name)
	assert.Equal(t, models.PlanFree, st.User.SubscriptionPlan)
	assert.Equal(t, 3, st.User.ScansRemainingToday)
	assert.Equal(t, models.ViewDashboard, st.View)
	assert.Equal(t, "en", st.Lang)
	assert.False(t, st.RTL)

	stored, err := f.store.GetUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, st.User.ID, stored.ID)
}

func TestApp_StartResetsQuotaOnNewDay(t *testing.T) {
	f := newTestApp(t, freeUser(0, "2025-02-28"), nil)

	assert.Equal(t, 3, f.app.Snapshot().User.ScansRemainingToday)
	stored, err := f.store.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stored.ScansRemainingToday)
	assert.Equal(t, today, stored.LastScanDate)
}

// Free user with one scan left scans a product scored 8.
func TestApp_ScanSuccessDecrementsQuota(t *testing.T) {
	f := newTestApp(t, freeUser(1, today), nil)
	f.gw.food = sampleFood(8, 180)

	out, err := f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, out.Status)
	assert.Equal(t, 1, f.gw.Calls())
	assert.Equal(t, "image/jpeg", f.gw.lastImage.MIMEType)

	st := f.app.Snapshot()
	require.NotNil(t, st.CurrentAnalysis)
	assert.Equal(t, "8/10", utils.ScoreLabel(st.CurrentAnalysis.Analysis.Score))
	assert.Equal(t, "2025-03-01T09:30:00Z", st.CurrentAnalysis.Timestamp)
	assert.Equal(t, 0, st.User.ScansRemainingToday)
	assert.False(t, st.IsAnalyzing)

	require.Len(t, st.Logs, 1)
	assert.Equal(t, today, st.Logs[0].Date)
	assert.Equal(t, 180.0, st.Logs[0].TotalCalories)

	stored, err := f.store.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ScansRemainingToday)

	logs, err := f.store.GetDailyLogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, st.Logs, logs)
}

// Free user with no scans left tries to analyse a recipe.
func TestApp_QuotaExhaustedShowsUpsell(t *testing.T) {
	f := newTestApp(t, freeUser(0, today), nil)
	f.gw.recipe = sampleRecipe("Soup", 230)

	out, err := f.app.AnalyzeRecipe(context.Background(), RecipeInput{Name: "Soup", Ingredients: "lentils", Servings: 2})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpsell, out.Status)
	assert.Zero(t, f.gw.Calls(), "gateway must not be called")

	st := f.app.Snapshot()
	assert.True(t, st.ShowSubscription)
	assert.Nil(t, st.RecipeOverlay)
	assert.False(t, st.IsAnalyzing)

	out, err = f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpsell, out.Status)
	assert.Zero(t, f.gw.Calls())
}

// The gateway fails during an image analysis.
func TestApp_ScanGatewayFailureLeavesStateUnchanged(t *testing.T) {
	f := newTestApp(t, freeUser(2, today), nil)
	f.gw.err = ErrGatewayFailure

	out, err := f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFailed, out.Status)
	assert.Equal(t, NoticeScanFailed, out.Notice)

	st := f.app.Snapshot()
	assert.False(t, st.IsAnalyzing)
	assert.Nil(t, st.CurrentAnalysis)
	assert.Empty(t, st.Logs)
	assert.Equal(t, 2, st.User.ScansRemainingToday)
	assert.Equal(t, NoticeScanFailed, st.Notice)

	stored, err := f.store.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ScansRemainingToday)
	assert.Contains(t, f.events.kinds(), models.EventNoticeRaised)
}

func TestApp_PremiumNeverDecrements(t *testing.T) {
	u := freeUser(0, today)
	u.SubscriptionPlan = models.PlanPremium
	f := newTestApp(t, u, nil)
	f.gw.food = sampleFood(6, 250)

	for i := 0; i < 3; i++ {
		out, err := f.app.Scan(context.Background(), jpegDataURI)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeCompleted, out.Status)
	}
	assert.Equal(t, 3, f.gw.Calls())
	assert.Equal(t, 0, f.app.Snapshot().User.ScansRemainingToday)
	assert.Equal(t, 750.0, f.app.Snapshot().Logs[0].TotalCalories)
}

func TestApp_ScanRejectsBadImage(t *testing.T) {
	f := newTestApp(t, nil, nil)
	_, err := f.app.Scan(context.Background(), "not base64!")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, f.gw.Calls())
}

func TestApp_ScanPersistenceFailureKeepsMemoryConsistent(t *testing.T) {
	f := newTestApp(t, freeUser(2, today), nil)
	f.gw.food = sampleFood(7, 100)
	f.store.failSaveUser = true

	_, err := f.app.Scan(context.Background(), jpegDataURI)
	require.ErrorIs(t, err, errDiskFull)

	st := f.app.Snapshot()
	assert.False(t, st.IsAnalyzing)
	assert.Equal(t, 2, st.User.ScansRemainingToday, "quota only changes after a successful write")
	assert.Nil(t, st.CurrentAnalysis)
	assert.Empty(t, st.Logs)

	logs, err := f.store.GetDailyLogs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs, "log entry and quota are written together or not at all")
}

func TestApp_ScanPublishesAllergyAlert(t *testing.T) {
	f := newTestApp(t, nil, nil)
	food := sampleFood(3, 200)
	food.Analysis.AllergyWarnings = []string{"Contains peanuts"}
	f.gw.food = food

	_, err := f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)

	kinds := f.events.kinds()
	assert.Contains(t, kinds, models.EventStateChanged)
	assert.Equal(t, models.EventAllergyAlert, kinds[len(kinds)-1])
}

type stubArchive struct {
	url string
	err error
}

func (s stubArchive) Archive(context.Context, []byte, string) (string, error) { return s.url, s.err }

func TestApp_ScanArchivesImage(t *testing.T) {
	f := newTestApp(t, nil, nil)
	f.gw.food = sampleFood(8, 100)
	f.app.archive = stubArchive{url: "https://cdn.example.com/scans/1.jpg"}

	_, err := f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/scans/1.jpg", f.app.Snapshot().CurrentAnalysis.ImageURL)

	f.app.archive = stubArchive{err: errors.New("s3 down")}
	out, err := f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, out.Status)
	assert.Empty(t, f.app.Snapshot().CurrentAnalysis.ImageURL)
}

func TestApp_RecipeFlow(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, nil, nil)
	f.gw.recipe = sampleRecipe("Lentil Soup", 230)

	out, err := f.app.AnalyzeRecipe(ctx, RecipeInput{Name: "Lentil Soup", Ingredients: "lentils, onion", Servings: 2})
	require.NoError(t, err)
	require.Equal(t, models.OutcomeCompleted, out.Status)

	st := f.app.Snapshot()
	require.NotNil(t, st.RecipeOverlay)
	assert.False(t, st.RecipeOverlay.Saved)
	assert.False(t, st.RecipeOverlay.ReadOnly)
	assert.Equal(t, utils.Timestamp(fixedNow), st.RecipeOverlay.Result.Timestamp)
	assert.Equal(t, 2, st.User.ScansRemainingToday)
	assert.Empty(t, st.Logs, "analysis alone does not log")

	saved, err := f.app.SaveRecipeToBook(ctx)
	require.NoError(t, err)
	st = f.app.Snapshot()
	require.NotNil(t, st.RecipeOverlay, "overlay stays open after saving")
	assert.True(t, st.RecipeOverlay.Saved)
	assert.Equal(t, saved.ID, st.RecipeOverlay.SavedID)
	require.Len(t, st.SavedRecipes, 1)

	_, err = f.app.SaveRecipeToBook(ctx)
	assert.ErrorIs(t, err, ErrReadOnlyRecipe)

	require.NoError(t, f.app.AddRecipeToLog(ctx))
	st = f.app.Snapshot()
	assert.Nil(t, st.RecipeOverlay)
	assert.Equal(t, models.ViewDashboard, st.View)
	require.Len(t, st.Logs, 1)
	assert.Equal(t, 230.0, st.Logs[0].TotalCalories)

	assert.ErrorIs(t, f.app.AddRecipeToLog(ctx), ErrNoRecipeOverlay)
}

func TestApp_RecipeOverlayMarksKnownNameAsSaved(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, nil, nil)
	_, err := f.store.SaveRecipe(ctx, *sampleRecipe("Lentil Soup", 230))
	require.NoError(t, err)
	require.NoError(t, f.app.Start(ctx))

	f.gw.recipe = sampleRecipe("Lentil Soup", 230)
	_, err = f.app.AnalyzeRecipe(ctx, RecipeInput{Name: "Lentil Soup", Ingredients: "lentils", Servings: 2})
	require.NoError(t, err)
	assert.True(t, f.app.Snapshot().RecipeOverlay.Saved)
}

func TestApp_RecipeValidationAndFailure(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, nil, nil)

	for _, in := range []RecipeInput{
		{Name: "", Ingredients: "eggs", Servings: 1},
		{Name: "Omelette", Ingredients: "  ", Servings: 1},
		{Name: "Omelette", Ingredients: "eggs", Servings: 0},
	} {
		_, err := f.app.AnalyzeRecipe(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	f.gw.err = ErrGatewayFailure
	out, err := f.app.AnalyzeRecipe(ctx, RecipeInput{Name: "Omelette", Ingredients: "eggs", Servings: 1})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFailed, out.Status)
	assert.Equal(t, NoticeRecipeFailed, out.Notice)
	assert.Equal(t, 3, f.app.Snapshot().User.ScansRemainingToday)
}

func TestApp_SavedRecipeSelectAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, nil, nil)
	rec, err := f.store.SaveRecipe(ctx, *sampleRecipe("Salad", 150))
	require.NoError(t, err)
	require.NoError(t, f.app.Start(ctx))

	require.NoError(t, f.app.SelectSavedRecipe(rec.ID))
	o := f.app.Snapshot().RecipeOverlay
	require.NotNil(t, o)
	assert.True(t, o.ReadOnly)
	assert.True(t, o.Saved)

	_, err = f.app.SaveRecipeToBook(ctx)
	assert.ErrorIs(t, err, ErrReadOnlyRecipe)

	got, err := f.app.SavedRecipe(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salad", got.RecipeName)

	require.NoError(t, f.app.DeleteSavedRecipe(ctx, rec.ID))
	st := f.app.Snapshot()
	assert.Empty(t, st.SavedRecipes)
	assert.Nil(t, st.RecipeOverlay)

	assert.ErrorIs(t, f.app.DeleteSavedRecipe(ctx, rec.ID), ErrNotFound)
	assert.ErrorIs(t, f.app.SelectSavedRecipe("missing"), ErrNotFound)
}

func TestApp_OverlaysAndNavigation(t *testing.T) {
	f := newTestApp(t, nil, nil)

	require.NoError(t, f.app.Navigate(models.ViewRecipeBook))
	assert.Equal(t, models.ViewRecipeBook, f.app.Snapshot().View)
	assert.ErrorIs(t, f.app.Navigate("settings"), ErrInvalidInput)

	require.NoError(t, f.app.OpenSubscription())
	assert.True(t, f.app.Snapshot().ShowSubscription)
	require.NoError(t, f.app.CloseOverlay(models.OverlaySubscription))
	assert.False(t, f.app.Snapshot().ShowSubscription)

	assert.ErrorIs(t, f.app.CloseOverlay("popup"), ErrInvalidInput)
}

func TestApp_SetLanguage(t *testing.T) {
	f := newTestApp(t, nil, nil)

	require.NoError(t, f.app.SetLanguage("ar-EG"))
	st := f.app.Snapshot()
	assert.Equal(t, "ar", st.Lang)
	assert.True(t, st.RTL)

	f.gw.answer = "ok"
	_, err := f.app.SendChat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ar", f.gw.lastLang)

	assert.ErrorIs(t, f.app.SetLanguage("??"), ErrInvalidInput)
}

func TestApp_UpgradeToPremium(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, freeUser(0, today), NewSimulatedPayment(0))
	require.NoError(t, f.app.OpenSubscription())

	receipt, err := f.app.Upgrade(ctx, BillingYearly)
	require.NoError(t, err)
	assert.Equal(t, 89.99, receipt.Amount)

	st := f.app.Snapshot()
	assert.True(t, st.User.IsPremium())
	assert.False(t, st.ShowSubscription)

	stored, err := f.store.GetUser(ctx)
	require.NoError(t, err)
	assert.True(t, stored.IsPremium())

	f.gw.food = sampleFood(8, 100)
	out, err := f.app.Scan(ctx, jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, out.Status)
}

func TestApp_UpgradeDeclined(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, nil, declinedPayment{})

	_, err := f.app.Upgrade(ctx, BillingMonthly)
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	st := f.app.Snapshot()
	assert.False(t, st.User.IsPremium())
	assert.Equal(t, NoticePaymentFailed, st.Notice)

	_, err = f.app.Upgrade(ctx, "weekly")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApp_Chat(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, nil, nil)
	f.gw.answer = "Choose whole grains. I am an AI, please consult your physician."

	reply, err := f.app.SendChat(ctx, "  What should I eat?  ")
	require.NoError(t, err)
	assert.Equal(t, models.ChatRoleAI, reply.Role)

	msgs := f.app.Snapshot().Chat.Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, models.ChatMessage{Role: models.ChatRoleUser, Text: "What should I eat?"}, msgs[0])
	assert.False(t, f.app.Snapshot().Chat.Loading)

	reply, err = f.app.SendChat(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Len(t, f.app.Snapshot().Chat.Messages, 2)

	f.gw.err = ErrGatewayFailure
	reply, err = f.app.SendChat(ctx, "And fruit?")
	require.NoError(t, err)
	assert.Equal(t, NoticeChatFailed, reply.Text)
	assert.Len(t, f.app.Snapshot().Chat.Messages, 4)
}

func TestApp_SearchPlaces(t *testing.T) {
	f := newTestApp(t, nil, nil)
	f.gw.places = PlacesResult{Text: "Green Bowl", Links: []PlaceLink{{Title: "Green Bowl", URI: "https://maps.example/1"}}}

	out, err := f.app.SearchPlaces(context.Background(), 25.2, 55.3)
	require.NoError(t, err)
	assert.Equal(t, "Green Bowl", out.Text)

	_, err = f.app.SearchPlaces(context.Background(), 91, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApp_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newTestApp(t, nil, nil)
	allergies := []string{"shellfish", " "}

	user, err := f.app.UpdateProfile(ctx, ProfileInput{Name: "Omar", Weight: 80, BirthYear: 1990, Allergies: &allergies})
	require.NoError(t, err)
	assert.Equal(t, "Omar", user.Name)
	assert.Equal(t, 26.1, user.BMI)
	assert.Equal(t, 35, user.Age)
	assert.Equal(t, []string{"shellfish"}, user.Allergies)
	assert.Equal(t, 3, user.ScansRemainingToday)

	stored, err := f.store.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Omar", stored.Name)

	_, err = f.app.UpdateProfile(ctx, ProfileInput{HealthGoal: "Bulk"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApp_DashboardAndNotStarted(t *testing.T) {
	idle := NewApp(AppOptions{Store: newTestStore(t), Gateway: &fakeGateway{}})
	_, err := idle.Dashboard()
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = idle.Scan(context.Background(), jpegDataURI)
	assert.ErrorIs(t, err, ErrNotStarted)

	f := newTestApp(t, nil, nil)
	f.gw.food = sampleFood(8, 450)
	_, err = f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)

	d, err := f.app.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 450.0, d.TodayCalories)
	assert.Equal(t, 2, d.ScansLeft)
	require.Len(t, d.Recent, 1)
	assert.Equal(t, "8/10", d.Recent[0].Label)
}

func TestUpsertLogKeepsDateOrder(t *testing.T) {
	logs := []models.DailyLog{{Date: "2025-02-27"}, {Date: "2025-03-01"}}

	logs = upsertLog(logs, models.DailyLog{Date: "2025-02-28", TotalCalories: 1})
	logs = upsertLog(logs, models.DailyLog{Date: "2025-03-01", TotalCalories: 2})
	logs = upsertLog(logs, models.DailyLog{Date: "2025-03-02", TotalCalories: 3})

	dates := make([]string, 0, len(logs))
	for _, l := range logs {
		dates = append(dates, l.Date)
	}
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, dates)
	assert.Equal(t, 2.0, logs[2].TotalCalories)
}

func TestApp_ScanFinishingAfterMidnightChargesTheNewDay(t *testing.T) {
	f := newTestApp(t, freeUser(1, today), nil)
	f.gw.food = sampleFood(7, 100)

	clock := fixedNow
	f.app.now = func() time.Time { return clock }
	f.gw.onCall = func() { clock = time.Date(2025, 3, 2, 0, 0, 10, 0, time.UTC) }

	out, err := f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	require.Equal(t, models.OutcomeCompleted, out.Status)

	user := f.app.Snapshot().User
	assert.Equal(t, 2, user.ScansRemainingToday)
	assert.Equal(t, "2025-03-02", user.LastScanDate)

	stored, err := f.store.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ScansRemainingToday)

	logs := f.app.Snapshot().Logs
	require.Len(t, logs, 1)
	assert.Equal(t, "2025-03-02", logs[0].Date)

	f.gw.onCall = nil
	out, err = f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, out.Status)
	assert.Equal(t, 1, f.app.Snapshot().User.ScansRemainingToday)
}

func TestApp_RecipeFinishingAfterMidnightChargesTheNewDay(t *testing.T) {
	f := newTestApp(t, freeUser(1, today), nil)
	f.gw.recipe = sampleRecipe("Soup", 200)

	clock := fixedNow
	f.app.now = func() time.Time { return clock }
	f.gw.onCall = func() { clock = fixedNow.Add(15 * time.Hour) }

	out, err := f.app.AnalyzeRecipe(context.Background(), RecipeInput{Name: "Soup", Ingredients: "leek", Servings: 2})
	require.NoError(t, err)
	require.Equal(t, models.OutcomeCompleted, out.Status)

	user := f.app.Snapshot().User
	assert.Equal(t, 2, user.ScansRemainingToday)
	assert.Equal(t, "2025-03-02", user.LastScanDate)
}

func TestApp_RunningAppResetsQuotaOnNewDay(t *testing.T) {
	f := newTestApp(t, freeUser(0, today), nil)
	f.gw.food = sampleFood(7, 100)

	out, err := f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	require.Equal(t, models.OutcomeUpsell, out.Status)
	require.Zero(t, f.gw.Calls())

	f.app.now = func() time.Time { return fixedNow.AddDate(0, 0, 1) }
	require.NoError(t, f.app.CloseOverlay(models.OverlaySubscription))

	out, err = f.app.Scan(context.Background(), jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, out.Status)
	assert.Equal(t, 1, f.gw.Calls())

	user := f.app.Snapshot().User
	assert.Equal(t, 2, user.ScansRemainingToday)
	assert.Equal(t, "2025-03-02", user.LastScanDate)
}

func TestApp_CallerCancellationDoesNotAbortAnalysis(t *testing.T) {
	f := newTestApp(t, freeUser(3, today), nil)
	f.gw.food = sampleFood(8, 300)
	f.gw.recipe = sampleRecipe("Stew", 400)
	f.gw.answer = "Eat more greens."

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := f.app.Scan(ctx, jpegDataURI)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, out.Status)
	assert.NoError(t, f.gw.ctxErr)
	assert.Len(t, f.app.Snapshot().Logs, 1)

	out, err = f.app.AnalyzeRecipe(ctx, RecipeInput{Name: "Stew", Ingredients: "beans", Servings: 2})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCompleted, out.Status)
	assert.NoError(t, f.gw.ctxErr)

	reply, err := f.app.SendChat(ctx, "Greens?")
	require.NoError(t, err)
	assert.Equal(t, "Eat more greens.", reply.Text)
	assert.NoError(t, f.gw.ctxErr)

	assert.Equal(t, 1, f.app.Snapshot().User.ScansRemainingToday)
}

func TestApp_StateEventsAreSequenced(t *testing.T) {
	f := newTestApp(t, nil, nil)

	views := []models.View{models.ViewScan, models.ViewProfile, models.ViewRecipeBook, models.ViewMedicalChat}
	done := make(chan struct{})
	for _, v := range views {
		go func(v models.View) {
			defer func() { done <- struct{}{} }()
			assert.NoError(t, f.app.Navigate(v))
		}(v)
	}
	for range views {
		<-done
	}

	f.events.mu.Lock()
	var latest models.Event
	seen := map[uint64]bool{}
	for _, ev := range f.events.events {
		if ev.Kind != models.EventStateChanged {
			continue
		}
		require.False(t, seen[ev.Seq], "sequence numbers are unique")
		seen[ev.Seq] = true
		if ev.Seq > latest.Seq {
			latest = ev
		}
	}
	f.events.mu.Unlock()

	require.NotNil(t, latest.State)
	final := f.app.StateEvent()
	assert.Equal(t, latest.Seq, final.Seq)
	assert.Equal(t, final.State.View, latest.State.View, "the highest sequence carries the final state")
}
