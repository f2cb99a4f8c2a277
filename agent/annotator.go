// Package agent uses Gemini to propose catalog annotations: a short
// description and tags for a symbol. The proposals land in the catalog
// file, where a human reviews them like any other edit.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Annotation is the proposal for one symbol.
type Annotation struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Annotator asks Gemini to describe symbols.
type Annotator struct {
	ModelName string
	chat      *genai.Chat
}

// New returns an Annotator. modelName may be empty to use the default.
func New(modelName string) *Annotator {
	if modelName == "" {
		modelName = defaultModel
	}
	return &Annotator{ModelName: modelName}
}

// Start creates the chat session. It must be called once before Annotate.
func (a *Annotator) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}
	chat, err := client.Chats.Create(ctx, a.ModelName, config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

const systemPrompt = `You describe financial instruments for a personal watchlist.
Given a ticker symbol and its watchlist category, answer with a single JSON object:
{"description": <one factual sentence about the instrument>, "tags": [<2 to 5 short lowercase tags>]}
Answer with the JSON object only, no markdown, no commentary.
If you do not recognize the symbol, answer {"description": "", "tags": []}.`

// Annotate asks for a description and tags of one symbol.
func (a *Annotator) Annotate(ctx context.Context, symbol, category string) (Annotation, error) {
	question := fmt.Sprintf("symbol: %s\ncategory: %s", symbol, category)
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return Annotation{}, fmt.Errorf("cannot annotate %q: %w", symbol, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Annotation{}, fmt.Errorf("cannot annotate %q: empty response", symbol)
	}
	return parseAnnotation(resp.Candidates[0].Content.Parts[0].Text)
}

// parseAnnotation decodes the model answer, tolerating the sloppy JSON
// models produce (markdown fences, trailing commas).
func parseAnnotation(text string) (Annotation, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var ann Annotation
	if err := json.Unmarshal([]byte(text), &ann); err == nil {
		return ann, nil
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return Annotation{}, fmt.Errorf("annotation is not JSON: %q", text)
	}
	if err := json.Unmarshal([]byte(repaired), &ann); err != nil {
		return Annotation{}, fmt.Errorf("annotation is not JSON: %q", text)
	}
	return ann, nil
}
