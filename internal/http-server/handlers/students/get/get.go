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

type StudentGetter interface {
	GetStudent(ctx context.Context, regNo string) (*api.StudentResponse, error)
}

type Response struct {
	response.Response
	Student *api.StudentResponse `json:"student,omitempty"`
}

func New(log *slog.Logger, getter StudentGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.students.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		regNo := chi.URLParam(r, "regNo")

		student, err := getter.GetStudent(r.Context(), regNo)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("student not found", slog.String("reg_no", regNo))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "student not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get student", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get student"))
			return
		}

		log.Info("Student retrieved", slog.String("reg_no", regNo))
		render.JSON(w, r, Response{Student: student})
	}
}
