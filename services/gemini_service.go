package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/omoarwwa-coder/ayman-ai/models"
)

const (
	geminiAPIVersion     = "v1beta"
	defaultGeminiModel   = "gemini-3-flash-preview"
	defaultPlacesModel   = "gemini-2.5-flash"
	defaultGeminiTimeout = 90 * time.Second

	placesFallbackText = "Could not find nearby places at this time."
)

// GeminiOptions configures the analysis gateway. BaseURL overrides the
// API host and is mainly useful for tests.
type GeminiOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	PlacesModel string
	HTTPClient  *http.Client
	Logger      *zerolog.Logger
}

// GeminiService is the analysis gateway. It turns images, recipes and
// questions into typed results using the Gemini generateContent API.
type GeminiService struct {
	client      *genai.Client
	model       string
	placesModel string
	logger      *zerolog.Logger
}

type ImageInput struct {
	Data     []byte
	MIMEType string
}

type RecipeInput struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
	Servings    int    `json:"servings"`
}

type PlaceLink struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type PlacesResult struct {
	Text  string      `json:"text"`
	Links []PlaceLink `json:"links"`
}

// NewGeminiService builds the gateway. Without an API key no client is
// created and every call fails with ErrGatewayFailure.
func NewGeminiService(ctx context.Context, opts GeminiOptions) (*GeminiService, error) {
	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}
	placesModel := opts.PlacesModel
	if placesModel == "" {
		placesModel = defaultPlacesModel
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	g := &GeminiService{model: model, placesModel: placesModel, logger: logger}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return g, nil
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultGeminiTimeout}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: geminiAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// AnalyzeFoodImage extracts nutrition facts and a personalised health
// analysis from a product photo.
func (g *GeminiService) AnalyzeFoodImage(ctx context.Context, img ImageInput, user models.UserProfile, lang string) (*models.FoodAnalysis, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(img.Data, mimeType),
		genai.NewPartFromText(buildImagePrompt(user, lang)),
	}, genai.RoleUser)}

	var out models.FoodAnalysis
	if err := g.generateStructured(ctx, g.model, contents, nutritionSchema, &out); err != nil {
		g.logger.Error().Err(err).Str("model", g.model).Msg("gemini: image analysis failed")
		return nil, err
	}
	return &out, nil
}

// AnalyzeRecipe scores a recipe and proposes healthier substitutions.
func (g *GeminiService) AnalyzeRecipe(ctx context.Context, in RecipeInput, user models.UserProfile, lang string) (*models.RecipeAnalysisResult, error) {
	if strings.TrimSpace(in.Ingredients) == "" {
		return nil, fmt.Errorf("%w: ingredients are required", ErrInvalidInput)
	}
	if in.Servings < 1 {
		return nil, fmt.Errorf("%w: servings must be at least 1", ErrInvalidInput)
	}

	contents := genai.Text(buildRecipePrompt(in, user, lang))

	var out models.RecipeAnalysisResult
	if err := g.generateStructured(ctx, g.model, contents, recipeSchema, &out); err != nil {
		g.logger.Error().Err(err).Str("model", g.model).Msg("gemini: recipe analysis failed")
		return nil, err
	}
	return &out, nil
}

// MedicalConsult answers a free-text nutrition question in the user's
// language, with the profile as system context.
func (g *GeminiService) MedicalConsult(ctx context.Context, query string, user models.UserProfile, lang string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty question", ErrInvalidInput)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(buildChatInstruction(user, lang))},
		},
	}
	resp, err := g.generate(ctx, g.model, genai.Text(query), cfg)
	if err != nil {
		g.logger.Error().Err(err).Str("model", g.model).Msg("gemini: medical consult failed")
		return "", err
	}
	text := firstCandidateText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty answer", ErrGatewayFailure)
	}
	return text, nil
}

// SearchNearbyPlaces never fails: any error degrades to a fixed apology
// with no links.
func (g *GeminiService) SearchNearbyPlaces(ctx context.Context, lat, lng float64, lang string) PlacesResult {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
		ToolConfig: &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{Latitude: genai.Ptr(lat), Longitude: genai.Ptr(lng)},
			},
		},
	}

	resp, err := g.generate(ctx, g.placesModel, genai.Text(buildPlacesPrompt(lang)), cfg)
	if err != nil {
		g.logger.Warn().Err(err).Str("model", g.placesModel).Msg("gemini: places lookup failed")
		return PlacesResult{Text: placesFallbackText, Links: []PlaceLink{}}
	}

	result := PlacesResult{Text: firstCandidateText(resp), Links: []PlaceLink{}}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Maps == nil || chunk.Maps.URI == "" {
				continue
			}
			result.Links = append(result.Links, PlaceLink{Title: chunk.Maps.Title, URI: chunk.Maps.URI})
		}
	}
	return result
}

// generateStructured asks for a JSON reply constrained by schema, checks
// the reply against the same schema and decodes it into out.
func (g *GeminiService) generateStructured(ctx context.Context, model string, contents []*genai.Content, schema *genai.Schema, out any) error {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	resp, err := g.generate(ctx, model, contents, cfg)
	if err != nil {
		return err
	}

	text := stripCodeFence(firstCandidateText(resp))
	if text == "" {
		return fmt.Errorf("%w: %w: empty response", ErrGatewayFailure, ErrSchemaViolation)
	}

	var generic any
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		return fmt.Errorf("%w: %w: %v", ErrGatewayFailure, ErrSchemaViolation, err)
	}
	if err := validateSchema(schema, generic); err != nil {
		return fmt.Errorf("%w: %w: %v", ErrGatewayFailure, ErrSchemaViolation, err)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %w: %v", ErrGatewayFailure, ErrSchemaViolation, err)
	}
	return nil
}

func (g *GeminiService) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if g.client == nil {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not configured", ErrGatewayFailure)
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatewayFailure, describeGeminiError(err))
	}
	return resp, nil
}

func describeGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini status %d: %s", apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return fmt.Errorf("gemini status %d: %s", apiErrPtr.Code, apiErrPtr.Message)
	}
	return err
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
