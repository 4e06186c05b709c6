package cachereset

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"attendance-service/pkg/response"
	"attendance-service/pkg/sl"
)

type CacheClearer interface {
	ClearSessionCache(sessionID string)
}

type Request struct {
	SessionID string `json:"session_id,omitempty"`
}

func New(log *slog.Logger, clearer CacheClearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cachereset.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		// Empty body resets the whole cache.
		if err := render.DecodeJSON(r.Body, &req); err != nil && r.ContentLength > 0 {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		clearer.ClearSessionCache(req.SessionID)

		log.Info("Session cache cleared", slog.String("session_id", req.SessionID))
		w.WriteHeader(http.StatusNoContent)
	}
}
