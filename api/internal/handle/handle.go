package handle

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"physics-parser/api/internal/config"
	"physics-parser/api/internal/llm"
	"physics-parser/api/internal/store"
)

const kindBadRequest = "bad_request"

// Journal receives one entry per /parse call.
type Journal interface {
	Record(ctx context.Context, e store.Entry) error
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handle struct {
	engs       *llm.Engines
	timeout    time.Duration
	statusMode string

	journal Journal
	db      Pinger
}

func New(engs *llm.Engines, timeout time.Duration, statusMode string) *Handle {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Handle{
		engs:       engs,
		timeout:    timeout,
		statusMode: statusMode,
	}
}

// WithJournal enables outcome journaling; db is pinged by /healthz.
func (h *Handle) WithJournal(j Journal, db Pinger) *Handle {
	h.journal = j
	h.db = db
	return h
}

func (h *Handle) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handle) record(r *http.Request, e store.Entry) {
	if h.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), 2*time.Second)
	defer cancel()
	if err := h.journal.Record(ctx, e); err != nil {
		log.Printf("journal: record failed: %v", err)
	}
}

// writeError always produces {"error": "..."}; the status depends on the configured mode.
func (h *Handle) writeError(w http.ResponseWriter, kind string, err error) {
	code := http.StatusOK
	if h.statusMode == config.ModeHTTP {
		code = statusFor(kind)
	}
	w.Header().Set("X-Error-Kind", kind)
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusFor(kind string) int {
	switch kind {
	case llm.KindTimeout:
		return http.StatusGatewayTimeout
	case llm.KindRateLimited:
		return http.StatusTooManyRequests
	case llm.KindUnknownEngine, kindBadRequest:
		return http.StatusBadRequest
	case llm.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, code int, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}
