package preload

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"attendance-service/api"
	"attendance-service/pkg/response"
	"attendance-service/pkg/sl"
)

type SessionPreloader interface {
	PreloadSession(ctx context.Context, dateKey string, req *api.PreloadRequest) (int, error)
}

type Request struct {
	api.PreloadRequest
}

type Response struct {
	response.Response
	Loaded int `json:"loaded"`
}

func New(log *slog.Logger, preloader SessionPreloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.preload.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := chi.URLParam(r, "date")

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		loaded, err := preloader.PreloadSession(r.Context(), date, &req.PreloadRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid preload request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid preload request"))
			return
		}

		if err != nil {
			log.Error("Failed to preload session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to preload session"))
			return
		}

		log.Info("Session preloaded", slog.String("date", date), slog.Int("session_index", req.SessionIndex), slog.Int("loaded", loaded))
		render.JSON(w, r, Response{Loaded: loaded})
	}
}
