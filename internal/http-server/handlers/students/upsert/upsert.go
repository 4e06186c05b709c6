package upsert

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"attendance-service/api"
	"attendance-service/pkg/response"
	"attendance-service/pkg/sl"
)

type StudentUpserter interface {
	UpsertStudents(ctx context.Context, reqs []api.StudentUpsert) (int, error)
}

type Request struct {
	Students []api.StudentUpsert `json:"students"`
}

type Response struct {
	response.Response
	Upserted int `json:"upserted"`
}

func New(log *slog.Logger, upserter StudentUpserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.students.upsert.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if len(req.Students) == 0 {
			log.Error("students is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "students is required"))
			return
		}

		n, err := upserter.UpsertStudents(r.Context(), req.Students)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid student row", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "reg_no and student_name are required for every row"))
			return
		}

		if err != nil {
			log.Error("Failed to upsert students", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to upsert students"))
			return
		}

		log.Info("Students upserted", slog.Int("count", n))
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Upserted: n})
	}
}
