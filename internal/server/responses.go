package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/docwright/docwright/internal/logfields"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v into a buffer first so serialization failures never
// leave a partial response on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}

// writeJSONPretty pretty-prints when the request carries pretty=true/1.
func writeJSONPretty(w http.ResponseWriter, r *http.Request, status int, v any) error {
	if r != nil {
		if p := r.URL.Query().Get("pretty"); p == "1" || p == "true" {
			b, err := json.MarshalIndent(v, "", "  ")
			if err == nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(status)
				_, werr := w.Write(append(b, '\n'))
				return werr
			}
			slog.Warn("Pretty JSON marshal failed, falling back to compact encode", logfields.Error(err))
		}
	}
	return writeJSON(w, status, v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, errorResponse{Error: msg})
}
