package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/keymarket/pianoscout/internal/catalog"
)

const defaultModel = "gemini-2.5-flash-lite"

const extractPrompt = `These are marketplace listing titles for digital pianos.
Extract the distinct instrument models mentioned (brand + model, e.g.
"Roland FP-30X"). Ignore accessories, parts, courses and generic titles
with no identifiable model.

Titles:
%s

Respond as JSON: {"models": ["...", "..."]}`

const scorePrompt = `Rate the digital piano "%s" for a buyer who wants a
realistic stage/home instrument. Score each aspect from 0 to 100:

- mechanics: key action quality (hammer action, escapement, key material)
- sound_polyphony: sound engine and polyphony
- customization: editability, connectivity, app support

Respond as JSON:
{
    "model": "canonical brand + model name",
    "mechanics": int,
    "sound_polyphony": int,
    "customization": int,
    "overall_score": float, (weighted judgement, 0-100)
    "rationale": "short string"
}`

// GeminiAnalyst implements Analyst with the Gemini API, JSON response
// mode, low temperature. Unlike the condition classifier it propagates
// errors: discovery runs are manual and a failure should be visible.
type GeminiAnalyst struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiAnalyst creates a Gemini-backed discovery analyst.
func NewGeminiAnalyst(ctx context.Context, apiKey, modelName string) (*GeminiAnalyst, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = defaultModel
	}

	model := client.GenerativeModel(modelName)
	temp := float32(0.1)
	model.Temperature = &temp
	model.ResponseMIMEType = "application/json"

	return &GeminiAnalyst{client: client, model: model}, nil
}

// Close closes the underlying API client.
func (a *GeminiAnalyst) Close() {
	if a.client != nil {
		a.client.Close()
	}
}

// ExtractModels asks the model to read listing titles and name the
// instruments they advertise.
func (a *GeminiAnalyst) ExtractModels(ctx context.Context, titles []string) ([]string, error) {
	prompt := fmt.Sprintf(extractPrompt, "- "+strings.Join(titles, "\n- "))

	text, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var out struct {
		Models []string `json:"models"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("unparsable extraction response: %w", err)
	}
	return out.Models, nil
}

// ScoreModel rates one model on the catalog sub-scores.
func (a *GeminiAnalyst) ScoreModel(ctx context.Context, model string) (catalog.TargetModel, error) {
	text, err := a.generate(ctx, fmt.Sprintf(scorePrompt, model))
	if err != nil {
		return catalog.TargetModel{}, err
	}

	var out catalog.TargetModel
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return catalog.TargetModel{}, fmt.Errorf("unparsable score response: %w", err)
	}
	if out.Model == "" {
		out.Model = model
	}
	return out, nil
}

func (a *GeminiAnalyst) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	return strings.TrimSpace(text), nil
}
