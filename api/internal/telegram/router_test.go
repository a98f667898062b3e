package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"physics-parser/api/internal/llm"
	"physics-parser/api/internal/scene"
	"physics-parser/api/internal/store"
)

type fakeBot struct{ sent []string }

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) last() string {
	if len(b.sent) == 0 {
		return ""
	}
	return b.sent[len(b.sent)-1]
}

type fakeEngine struct {
	name    string
	content string
	err     error
	texts   []string
}

func (e *fakeEngine) Name() string     { return e.name }
func (e *fakeEngine) GetModel() string { return e.name + "-model" }
func (e *fakeEngine) ParseScene(_ context.Context, text string) (llm.Result, error) {
	e.texts = append(e.texts, text)
	if e.err != nil {
		return llm.Result{}, e.err
	}
	return llm.DecodeScene(e.name, e.content)
}

type fakeJournal struct {
	counts  map[string]int
	err     error
	entries []store.Entry
}

func (j *fakeJournal) Record(_ context.Context, e store.Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

func (j *fakeJournal) Stats(context.Context, time.Time) (map[string]int, error) {
	return j.counts, j.err
}

const orbitScene = `{"scenario_type":"orbit","gravity_mode":"SPACE","objects":[` +
	`{"label":"Sun","shape":"sphere","color":"yellow","mass":1000,"pos":[0,0,0],"vel":[0,0,0],"args":[2],"rotation":[0,0,0],"fixed":true},` +
	`{"label":"Earth","shape":"sphere","color":"blue","mass":1,"pos":[10,0,0],"vel":[0,0,3.5],"args":[0.5],"rotation":[0,0,0],"fixed":false}],` +
	`"analysis":{"student_mode":"Gravity pulls the planet.","researcher_mode":"**Concept:** orbit","math_steps":["F = GMm/r^2","v = sqrt(GM/r)"]}}`

func newRouter(groq, gemini *fakeEngine) (*Router, *fakeBot) {
	engs := &llm.Engines{Groq: groq, Default: "groq"}
	if gemini != nil {
		engs.Gemini = gemini
	}
	bot := &fakeBot{}
	return &Router{
		Bot:        bot,
		EngManager: llm.NewManager(groq),
		Engines:    engs,
		Timeout:    time.Second,
	}, bot
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: text}
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{Message: msg}
}

func TestRouter_TextIsParsed(t *testing.T) {
	groq := &fakeEngine{name: "groq", content: orbitScene}
	r, bot := newRouter(groq, nil)

	r.HandleUpdate(textUpdate(1, "A planet orbiting the Sun"))

	if len(groq.texts) != 1 || groq.texts[0] != "A planet orbiting the Sun" {
		t.Fatalf("engine got %q", groq.texts)
	}
	out := bot.last()
	for _, want := range []string{"Scenario: orbit", "Gravity: SPACE", "Objects (2)", "Sun: sphere, yellow, m=1000", "fixed", "vel [0 0 3.5]", "2) v = sqrt(GM/r)"} {
		if !strings.Contains(out, want) {
			t.Errorf("reply missing %q:\n%s", want, out)
		}
	}
}

func TestRouter_ParsesAreJournaled(t *testing.T) {
	groq := &fakeEngine{name: "groq", content: strings.Replace(orbitScene, `"SPACE"`, `"EARTH"`, 1)}
	r, _ := newRouter(groq, nil)
	j := &fakeJournal{}
	r.Journal = j

	r.HandleUpdate(textUpdate(3, "A planet orbiting the Sun"))
	groq.err = llm.Wrap(llm.ErrTimeout, "groq", context.DeadlineExceeded)
	r.HandleUpdate(textUpdate(3, "a ball"))
	r.HandleUpdate(textUpdate(3, "/health"))

	if len(j.entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", j.entries)
	}
	ok, failed := j.entries[0], j.entries[1]
	if ok.Source != store.SourceTelegram || !ok.OK || ok.Engine != "groq" || ok.TextLen != len("A planet orbiting the Sun") {
		t.Errorf("unexpected success entry %+v", ok)
	}
	if len(ok.Warnings) != 1 || ok.Warnings[0] != scene.WarnGravityNotSpace {
		t.Errorf("expected gravity warning, got %v", ok.Warnings)
	}
	if failed.OK || failed.ErrorKind != llm.KindTimeout || failed.Source != store.SourceTelegram {
		t.Errorf("unexpected failure entry %+v", failed)
	}
}

func TestRouter_ErrorReply(t *testing.T) {
	groq := &fakeEngine{name: "groq", err: llm.Wrap(llm.ErrRateLimited, "groq", errors.New("slow down"))}
	r, bot := newRouter(groq, nil)

	r.HandleUpdate(textUpdate(1, "two boxes"))

	if !strings.HasPrefix(bot.last(), "error: ") {
		t.Errorf("expected error reply, got %q", bot.last())
	}
}

func TestRouter_EngineSwitch(t *testing.T) {
	groq := &fakeEngine{name: "groq", content: orbitScene}
	gem := &fakeEngine{name: "gemini", content: orbitScene}
	r, bot := newRouter(groq, gem)

	r.HandleUpdate(textUpdate(7, "/engine gemini"))
	if !strings.Contains(bot.last(), "Engine: gemini") {
		t.Fatalf("unexpected reply %q", bot.last())
	}
	r.HandleUpdate(textUpdate(7, "a ball"))
	if len(gem.texts) != 1 || len(groq.texts) != 0 {
		t.Errorf("chat 7 should use gemini: gemini=%d groq=%d", len(gem.texts), len(groq.texts))
	}

	// other chats keep the default
	r.HandleUpdate(textUpdate(8, "a ball"))
	if len(groq.texts) != 1 {
		t.Errorf("chat 8 should use groq")
	}

	r.HandleUpdate(textUpdate(7, "/engine openai"))
	if !strings.HasPrefix(bot.last(), "❌") {
		t.Errorf("unconfigured engine should be refused, got %q", bot.last())
	}

	r.HandleUpdate(textUpdate(7, "/engine"))
	if !strings.Contains(bot.last(), "Current engine: gemini") || !strings.Contains(bot.last(), "groq | gemini") {
		t.Errorf("unexpected status %q", bot.last())
	}
}

func TestRouter_Health(t *testing.T) {
	groq := &fakeEngine{name: "groq"}
	r, bot := newRouter(groq, nil)

	r.HandleUpdate(textUpdate(1, "/health"))
	if bot.last() != "✅ OK" {
		t.Errorf("got %q", bot.last())
	}

	r.Journal = &fakeJournal{counts: map[string]int{"": 5, "timeout": 2}}
	r.HandleUpdate(textUpdate(1, "/health"))
	if !strings.Contains(bot.last(), "ok=5, timeout=2") {
		t.Errorf("got %q", bot.last())
	}

	r.Journal = &fakeJournal{err: errors.New("down")}
	r.HandleUpdate(textUpdate(1, "/health"))
	if !strings.Contains(bot.last(), "journal unavailable") {
		t.Errorf("got %q", bot.last())
	}
}

func TestRouter_UnknownCommand(t *testing.T) {
	r, bot := newRouter(&fakeEngine{name: "groq"}, nil)
	r.HandleUpdate(textUpdate(1, "/nope"))
	if bot.last() != "Unknown command" {
		t.Errorf("got %q", bot.last())
	}
}

func TestFormatScene_Nil(t *testing.T) {
	if got := formatScene(nil); got != "(empty scene)" {
		t.Errorf("got %q", got)
	}
}

func TestFormatObject_DefaultLabel(t *testing.T) {
	got := formatObject(scene.Object{Shape: scene.ShapeBox, Mass: 2.5})
	if got != "object: box, m=2.5" {
		t.Errorf("got %q", got)
	}
}
