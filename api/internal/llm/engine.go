package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"physics-parser/api/internal/scene"
	"physics-parser/api/internal/util"
)

type Engine interface {
	Name() string
	GetModel() string
	ParseScene(ctx context.Context, text string) (Result, error)
}

// Result keeps the model's bytes for pass-through next to the decoded scene.
type Result struct {
	Raw   json.RawMessage
	Scene *scene.Scene
}

// DecodeScene turns a completion's content into a Result.
func DecodeScene(engine, content string) (Result, error) {
	out := util.StripCodeFences(content)
	if out == "" {
		return Result{}, Wrap(ErrEmptyResponse, engine, nil)
	}
	if !json.Valid([]byte(out)) {
		return Result{}, Wrap(ErrMalformedOutput, engine, fmt.Errorf("content: %s", util.Truncate(out, 200)))
	}
	sc, err := scene.Decode([]byte(out))
	if err != nil {
		return Result{}, Wrap(ErrInvalidScene, engine, err)
	}
	return Result{Raw: json.RawMessage(out), Scene: sc}, nil
}

type Engines struct {
	Groq     Engine
	OpenAI   Engine
	Gemini   Engine
	Deepseek Engine
	Default  string
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(llmName))
	if name == "" {
		name = e.Default
	}
	var eng Engine
	switch name {
	case "", "groq":
		eng = e.Groq
	case "gpt", "openai":
		eng = e.OpenAI
	case "gemini":
		eng = e.Gemini
	case "deepseek":
		eng = e.Deepseek
	default:
		return nil, Wrap(ErrUnknownEngine, name, fmt.Errorf("use groq | openai | gemini | deepseek"))
	}
	if eng == nil {
		return nil, Wrap(ErrUnknownEngine, name, fmt.Errorf("engine is not configured"))
	}
	return eng, nil
}

// Available lists configured engine names.
func (e *Engines) Available() []string {
	var out []string
	for _, x := range []Engine{e.Groq, e.OpenAI, e.Gemini, e.Deepseek} {
		if x != nil {
			out = append(out, x.Name())
		}
	}
	return out
}

// Manager keeps a per-chat engine choice on top of a default.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
