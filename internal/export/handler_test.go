package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/engine"
)

const rectScript = `
width: 120
height: 100
steps:
  - tool: rect
  - drag: {from: {x: 20, y: 20}, to: {x: 100, y: 80}}
`

func post(h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
	return rec
}

func TestExportPNG(t *testing.T) {
	h := NewHandler(engine.Options{})
	rec := post(h.ExportPNG, "/export/png?name=my%20board", rectScript)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="my-board.png"`)

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestExportCommands(t *testing.T) {
	h := NewHandler(engine.Options{})
	rec := post(h.ExportCommands, "/export/commands", rectScript)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Commands []map[string]any `json:"commands"`
		Snapshot struct {
			Elements []map[string]any `json:"elements"`
		} `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Commands)
	assert.Len(t, resp.Snapshot.Elements, 1)
}

func TestExportErrors(t *testing.T) {
	h := NewHandler(engine.Options{})
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "steps: [\n"},
		{"unknown tool", "steps:\n  - tool: laser\n"},
		{"unknown action", "steps:\n  - action: explode\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.ExportPNG, "/export/png", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}
