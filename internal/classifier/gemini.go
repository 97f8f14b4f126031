package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.5-flash-lite"

const verdictPrompt = `Analyze this musical instrument listing.
Target model: %s
Listing: %s | Price: R$ %.2f

Classify as JSON:
{
    "is_real_piano": boolean, (false if it is a part/lesson/accessory/scam)
    "condition": "string", (one of: 'new', 'excellent', 'functional', 'semi_functional', 'non_functional')
    "estimated_repair_cost": float, (if 'semi_functional' or 'non_functional', estimate the repair cost in Brazil; otherwise 0)
    "rationale": "short string"
}

Condition rules:
- new: sealed / sold by a store.
- excellent: used but visually and functionally perfect.
- functional: signs of use, works 100%%.
- semi_functional: failing key, weak sound, minor defect.
- non_functional: does not power on, serious defect.`

// GeminiClassifier judges listing condition with the Gemini API using the
// official SDK, JSON response mode, low temperature.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClassifier creates a Gemini-backed condition classifier.
func NewGeminiClassifier(ctx context.Context, apiKey, modelName string) (*GeminiClassifier, error) {
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

	return &GeminiClassifier{client: client, model: model}, nil
}

// Close closes the underlying API client.
func (c *GeminiClassifier) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// geminiVerdict mirrors the JSON shape the prompt asks for.
type geminiVerdict struct {
	IsRealPiano         bool    `json:"is_real_piano"`
	Condition           string  `json:"condition"`
	EstimatedRepairCost float64 `json:"estimated_repair_cost"`
	Rationale           string  `json:"rationale"`
}

// Classify sends one listing to Gemini and maps the response onto a Verdict.
// Transport failures, safety blocks and unreadable responses degrade to a
// rejected verdict so a flaky collaborator never aborts an ingestion batch.
func (c *GeminiClassifier) Classify(ctx context.Context, req Request) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Rejected("context done"), err
	}

	prompt := fmt.Sprintf(verdictPrompt, req.TargetModel, req.Title, req.Price)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("⚠️ Classifier error: %v", err)
		return Rejected(truncate(fmt.Sprintf("classifier error: %v", err), 120)), nil
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("⚠️ Classifier returned an empty response")
		return Rejected("empty classifier response"), nil
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}

	var gv geminiVerdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &gv); err != nil {
		log.Printf("⚠️ Classifier returned unparsable JSON: %v", err)
		return Rejected("unparsable classifier response"), nil
	}

	tier := Tier(gv.Condition)
	if !tier.Known() {
		return Rejected(fmt.Sprintf("unknown condition tier %q", gv.Condition)), nil
	}

	repair := gv.EstimatedRepairCost
	if repair < 0 {
		repair = 0
	}

	return Verdict{
		Valid:      gv.IsRealPiano,
		Tier:       tier,
		RepairCost: repair,
		Rationale:  gv.Rationale,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
