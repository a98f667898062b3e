package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"physics-parser/api/internal/llm"
)

type Engine struct {
	Model string

	system string
	client *genai.Client
}

// New dials the Gemini API once; the client is shared by all requests.
func New(ctx context.Context, apiKey, model, system string) (*Engine, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Engine{
		Model:  strings.TrimSpace(model),
		system: system,
		client: cl,
	}, nil
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Close() error { return e.client.Close() }

func (e *Engine) ParseScene(ctx context.Context, text string) (llm.Result, error) {
	m := e.client.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(e.system)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return llm.Result{}, classify(err)
	}
	return llm.DecodeScene(e.Name(), firstText(resp))
}

func classify(err error) error {
	status := 0
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		status = gerr.Code
	}
	return llm.FromStatus("gemini", status, err)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
