package scan

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

type Scanner interface {
	Scan(ctx context.Context, req *api.ScanRequest) (*api.ScanResult, error)
}

type Request struct {
	api.ScanRequest
}

type Response struct {
	response.Response
	Result *api.ScanResult `json:"result,omitempty"`
}

func New(log *slog.Logger, scanner Scanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.scan.New"

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

		log.Info("Request body decoded", slog.Any("request", req))

		if req.RegNo == "" {
			log.Error("reg_no is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "reg_no is required"))
			return
		}

		if req.Date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		if req.CoordinatorUID == "" {
			log.Error("coordinator_uid is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "coordinator_uid is required"))
			return
		}

		result, err := scanner.Scan(r.Context(), &req.ScanRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("student or session not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "student or session not found"))
			return
		}

		if errors.Is(err, response.ErrIneligible) {
			log.Error("student not eligible for this page")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.INELIGIBLE), "student is not eligible for this category"))
			return
		}

		if errors.Is(err, response.ErrDuplicate) {
			log.Error("already marked in this session")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.DUPLICATE), "already marked in this session"))
			return
		}

		if errors.Is(err, response.ErrCategoryConflict) {
			log.Error("existing record has a different category")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFIRM_REQUIRED), "existing record has a different category, confirmation required"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("scan commit is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "another scan for this student is in progress"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid scan request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid scan request"))
			return
		}

		if err != nil {
			log.Error("Failed to process scan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to process scan"))
			return
		}

		log.Info("Scan committed", slog.String("outcome", result.Outcome), slog.String("id", result.Attendance.ID))

		if result.Outcome == api.OutcomeCreated {
			w.WriteHeader(http.StatusCreated)
		}
		render.JSON(w, r, Response{Result: result})
	}
}
