package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"product-catalog/internal/apperror"
	"product-catalog/internal/logger"
)

// Response is the JSON envelope every endpoint answers with, success or not.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Results interface{} `json:"results,omitempty"`
	Total   *int64      `json:"total,omitempty"`
	Page    *int64      `json:"page,omitempty"`
	Limit   *int64      `json:"limit,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError is the terminal responder: it maps an AppError onto the
// envelope with its carried status, and anything else onto a 500. Every
// handler path ends in exactly one respond call.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr, ok := err.(*apperror.AppError)
	if !ok {
		appErr = apperror.Internal("Internal server error")
	}

	logger.Error(ctx, appErr.Message,
		slog.Int("http.status", appErr.StatusCode),
		slog.String("error", err.Error()),
	)

	writeJSON(w, appErr.StatusCode, Response{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Errors,
	})
}
