package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/inamate/whiteboard/internal/engine"
	"github.com/inamate/whiteboard/internal/errs"
	"github.com/inamate/whiteboard/internal/script"
)

const (
	maxScriptSize = 1 << 20 // 1MB
	renderTimeout = 10 * time.Second
)

// Handler replays uploaded gesture scripts and returns the result.
type Handler struct {
	opts engine.Options
}

// NewHandler creates a handler whose engines are built from opts.
func NewHandler(opts engine.Options) *Handler {
	return &Handler{opts: opts}
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) (script.Script, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScriptSize)
	s, err := script.Parse(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return script.Script{}, false
	}
	return s, true
}

// ExportPNG handles POST /export/png with a YAML script body and streams
// back the final frame as a PNG.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	s, ok := h.parse(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	data, err := script.RenderPNG(ctx, s, h.opts)
	if err != nil {
		handleRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, fileName(r)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)

	slog.Info("export complete", "format", "png", "steps", len(s.Steps), "size", len(data))
}

// ExportCommands handles POST /export/commands and returns the Canvas2D
// draw commands of the final frame alongside the element list.
func (h *Handler) ExportCommands(w http.ResponseWriter, r *http.Request) {
	s, ok := h.parse(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	p := script.NewPlayer(h.opts)
	if err := p.Run(ctx, s); err != nil {
		handleRenderError(w, err)
		return
	}
	commands, err := p.Engine.RenderJSON()
	if err != nil {
		handleRenderError(w, err)
		return
	}
	snap, err := p.Engine.Snapshot()
	if err != nil {
		handleRenderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Commands json.RawMessage `json:"commands"`
		Snapshot engine.Snapshot `json:"snapshot"`
	}{json.RawMessage(commands), snap})
}

// fileName sanitizes the optional ?name= parameter.
func fileName(r *http.Request) string {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "whiteboard"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

func handleRenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidScript),
		errors.Is(err, errs.ErrUnknownTool),
		errors.Is(err, errs.ErrUnknownAction),
		errors.Is(err, errs.ErrUnknownElementType):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "render timed out"})
	default:
		slog.Error("render script", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
