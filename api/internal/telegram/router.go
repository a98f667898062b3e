package telegram

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"physics-parser/api/internal/llm"
	"physics-parser/api/internal/scene"
	"physics-parser/api/internal/store"
	"physics-parser/api/internal/util"
)

// Sender is the part of *tgbotapi.BotAPI the router needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Journal records chat parses and reports outcome counts; optional.
type Journal interface {
	Record(ctx context.Context, e store.Entry) error
	Stats(ctx context.Context, since time.Time) (map[string]int, error)
}

type Router struct {
	Bot        Sender
	EngManager *llm.Manager
	Engines    *llm.Engines
	Journal    Journal

	Timeout time.Duration
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.HandleCommand(upd)
		return
	}
	cid := upd.Message.Chat.ID
	text := strings.TrimSpace(upd.Message.Text)
	if text == "" {
		r.send(cid, "Send a text description of a physics scene.")
		return
	}
	r.parse(cid, text)
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Describe a physics situation in words and I will reply with the scene.\nCommands: /health, /engine")
	case "health":
		r.send(cid, r.healthText())
	case "engine":
		r.handleEngineCommand(cid, upd.Message.CommandArguments())
	default:
		r.send(cid, "Unknown command")
	}
}

// handleEngineCommand switches the chat's engine.
//
//	/engine
//	/engine groq|openai|gemini|deepseek
func (r *Router) handleEngineCommand(chatID int64, args string) {
	name := strings.ToLower(strings.TrimSpace(args))
	if name == "" {
		cur := "none"
		if e := r.EngManager.Get(chatID); e != nil {
			cur = e.Name() + " (" + e.GetModel() + ")"
		}
		r.send(chatID, "Current engine: "+cur+
			"\nAvailable: "+strings.Join(r.Engines.Available(), " | ")+
			"\nUsage: /engine <name>")
		return
	}
	eng, err := r.Engines.GetEngine(name)
	if err != nil {
		r.send(chatID, "❌ "+err.Error())
		return
	}
	r.EngManager.Set(chatID, eng)
	r.send(chatID, "✅ Engine: "+eng.Name()+" ("+eng.GetModel()+").")
}

func (r *Router) healthText() string {
	if r.Journal == nil {
		return "✅ OK"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	counts, err := r.Journal.Stats(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return "⚠️ OK, journal unavailable: " + err.Error()
	}
	return "✅ OK\nLast 24h: " + formatCounts(counts)
}

func (r *Router) parse(chatID int64, text string) {
	eng := r.EngManager.Get(chatID)
	if eng == nil {
		r.send(chatID, "error: no engine configured")
		return
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	entry := store.Entry{
		Source:   store.SourceTelegram,
		TextHash: util.SHA256Hex(text),
		TextLen:  len(text),
		Engine:   eng.Name(),
		Model:    eng.GetModel(),
	}
	start := time.Now()
	res, err := eng.ParseScene(ctx, text)
	entry.Duration = time.Since(start)
	if err != nil {
		entry.ErrorKind = llm.Kind(err)
		log.Printf("bot: chat=%d engine=%s kind=%s: %v", chatID, eng.Name(), entry.ErrorKind, err)
		r.record(entry)
		r.SendError(chatID, err)
		return
	}
	if warns := scene.AuditPolicy(text, res.Scene); len(warns) > 0 {
		log.Printf("bot: chat=%d engine=%s model ignored prompt rules: %s", chatID, eng.Name(), strings.Join(warns, ","))
		entry.Warnings = warns
	}
	entry.OK = true
	r.record(entry)
	r.SendResult(chatID, formatScene(res.Scene))
}

func (r *Router) record(e store.Entry) {
	if r.Journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Journal.Record(ctx, e); err != nil {
		log.Printf("journal: record failed: %v", err)
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("bot: send to %d: %v", chatID, err)
	}
}

func (r *Router) SendResult(chatID int64, text string) {
	r.send(chatID, util.Truncate(text, 3900))
}

func (r *Router) SendError(chatID int64, err error) {
	r.send(chatID, fmt.Sprintf("error: %v", err))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "no requests"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		name := k
		if name == "" {
			name = "ok"
		}
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[k]))
	}
	return strings.Join(parts, ", ")
}
