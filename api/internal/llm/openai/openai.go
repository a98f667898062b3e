package openai

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"physics-parser/api/internal/llm"
)

// Engine talks to any OpenAI-compatible chat completions API (Groq, OpenAI, DeepSeek).
type Engine struct {
	Model string

	name    string
	apiKey  string
	baseURL string
	system  string
	client  *openai.Client
}

func New(name, key, model, baseURL, system string) *Engine {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}
	e := &Engine{
		Model:   model,
		name:    name,
		apiKey:  key,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		system:  system,
	}
	// Timeout=0: the request context bounds each call.
	return e.WithHTTPClient(&http.Client{Timeout: 0, Transport: tr})
}

// WithHTTPClient rebuilds the API client on top of c (tests, tracing, proxies).
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	cfg := openai.DefaultConfig(e.apiKey)
	if e.baseURL != "" {
		cfg.BaseURL = e.baseURL
	}
	if c != nil {
		cfg.HTTPClient = c
	}
	e.client = openai.NewClientWithConfig(cfg)
	return e
}

func (e *Engine) Name() string     { return e.name }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) ParseScene(ctx context.Context, text string) (llm.Result, error) {
	req := openai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		// the library drops a zero temperature (omitempty); this is its documented way to send 0
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return llm.Result{}, e.classify(err)
	}
	if len(resp.Choices) == 0 {
		return llm.Result{}, llm.Wrap(llm.ErrEmptyResponse, e.name, nil)
	}
	return llm.DecodeScene(e.name, resp.Choices[0].Message.Content)
}

func (e *Engine) classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return llm.FromStatus(e.name, status, err)
}
