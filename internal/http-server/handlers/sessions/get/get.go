package get

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

type ConfigGetter interface {
	GetSessionConfig(ctx context.Context, dateKey string) (*api.SessionConfigResponse, error)
}

type Response struct {
	response.Response
	Config *api.SessionConfigResponse `json:"config,omitempty"`
}

func New(log *slog.Logger, getter ConfigGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := chi.URLParam(r, "date")

		config, err := getter.GetSessionConfig(r.Context(), date)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("no sessions configured for date", slog.String("date", date))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "no sessions configured for this date"))
			return
		}

		if err != nil {
			log.Error("Failed to get session config", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get session config"))
			return
		}

		log.Info("Session config retrieved", slog.String("date", date))
		render.JSON(w, r, Response{Config: config})
	}
}
