package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Every response carries a success envelope: {"success": bool, ...} with an
// "error" message on failure.

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

func okBody(fields map[string]any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["success"] = true
	return fields
}

func errorBody(msg string) map[string]any {
	return map[string]any{"success": false, "error": msg}
}
