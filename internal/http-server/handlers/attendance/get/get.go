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

type AttendanceGetter interface {
	GetAttendance(ctx context.Context, id string) (*api.AttendanceResponse, error)
	ListAttendance(ctx context.Context, f *api.AttendanceFilters) ([]*api.AttendanceResponse, error)
}

type Response struct {
	response.Response
	Attendances []api.AttendanceResponse `json:"attendances,omitempty"`
	Attendance  *api.AttendanceResponse  `json:"attendance,omitempty"`
}

func New(log *slog.Logger, getter AttendanceGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attendance.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			attendance, err := getter.GetAttendance(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get attendance", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get attendance"))
				return
			}

			log.Info("Attendance retrieved", slog.String("id", id))
			render.JSON(w, r, Response{Attendance: attendance})
			return
		}

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		filters := &api.AttendanceFilters{Date: date}

		if v := r.URL.Query().Get("category"); v != "" {
			filters.Category = &v
		}
		if v := r.URL.Query().Get("coordinator"); v != "" {
			filters.Coordinator = &v
		}
		if v := r.URL.Query().Get("session_id"); v != "" {
			filters.SessionID = &v
		}

		attendances, err := getter.ListAttendance(r.Context(), filters)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid filters", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid filters"))
			return
		}

		if err != nil {
			log.Error("Failed to list attendance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list attendance"))
			return
		}

		log.Info("Attendance retrieved", slog.Int("count", len(attendances)))

		out := make([]api.AttendanceResponse, len(attendances))
		for i, a := range attendances {
			out[i] = *a
		}
		render.JSON(w, r, Response{Attendances: out})
	}
}
