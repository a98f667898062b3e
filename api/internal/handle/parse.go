package handle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"physics-parser/api/internal/llm"
	"physics-parser/api/internal/scene"
	"physics-parser/api/internal/store"
	"physics-parser/api/internal/util"
)

type ParseRequest struct {
	Text    string `json:"text"`
	LLMName string `json:"llm_name,omitempty"`
}

// Parse forwards the text to the selected engine and relays the scene JSON as-is.
func (h *Handle) Parse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var req ParseRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		h.writeError(w, kindBadRequest, fmt.Errorf("bad json: %w", err))
		return
	}

	engine, err := h.engs.GetEngine(req.LLMName)
	if err != nil {
		h.writeError(w, llm.Kind(err), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.deadline(r))
	defer cancel()

	entry := store.Entry{
		Source:   store.SourceHTTP,
		TextHash: util.SHA256Hex(req.Text),
		TextLen:  len(req.Text),
		Engine:   engine.Name(),
		Model:    engine.GetModel(),
	}

	start := time.Now()
	res, err := engine.ParseScene(ctx, req.Text)
	entry.Duration = time.Since(start)
	if err != nil {
		kind := llm.Kind(err)
		log.Printf("parse: engine=%s kind=%s took=%s: %v", engine.Name(), kind, entry.Duration.Round(time.Millisecond), err)
		entry.ErrorKind = kind
		h.writeError(w, kind, err)
		h.record(r, entry)
		return
	}

	if warns := scene.AuditPolicy(req.Text, res.Scene); len(warns) > 0 {
		log.Printf("parse: engine=%s model ignored prompt rules: %s", engine.Name(), strings.Join(warns, ","))
		entry.Warnings = warns
	}
	entry.OK = true

	writeRaw(w, http.StatusOK, res.Raw)
	h.record(r, entry)
}

// deadline honours X-Request-Timeout or ?timeoutSec=, in seconds.
func (h *Handle) deadline(r *http.Request) time.Duration {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return time.Duration(v) * time.Second
	}
	return h.timeout
}
