package set

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

type ConfigSetter interface {
	SetSessionConfig(ctx context.Context, dateKey string, req *api.SessionConfigRequest) (*api.SessionConfigResponse, error)
}

type Request struct {
	api.SessionConfigRequest
}

type Response struct {
	response.Response
	Config *api.SessionConfigResponse `json:"config,omitempty"`
}

func New(log *slog.Logger, setter ConfigSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.set.New"

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

		config, err := setter.SetSessionConfig(r.Context(), date, &req.SessionConfigRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid session config", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid session config"))
			return
		}

		if err != nil {
			log.Error("Failed to set session config", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to set session config"))
			return
		}

		log.Info("Session config saved", slog.String("date", date))
		render.JSON(w, r, Response{Config: config})
	}
}
