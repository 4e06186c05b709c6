package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance-service/api"
	"attendance-service/internal/cache"
	"attendance-service/internal/lock"
	"attendance-service/internal/metrics"
	"attendance-service/internal/models"
	"attendance-service/pkg/response"
)

const commitLockTTL = 10 * time.Second

type Service struct {
	store   Store
	locker  lock.Locker
	cache   *cache.SessionCache
	metrics *metrics.Metrics
}

func NewService(store Store, locker lock.Locker, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		locker:  locker,
		cache:   cache.New(),
		metrics: m,
	}
}

type Store interface {
	// Attendance
	CreateAttendance(ctx context.Context, rec *models.AttendanceRecord) (string, error)
	GetAttendance(ctx context.Context, id string) (*models.AttendanceRecord, error)
	FindAttendance(ctx context.Context, sessionID, regNo string) (*models.AttendanceRecord, error)
	ListSessionAttendance(ctx context.Context, sessionID string, category *models.Category) ([]*models.AttendanceRecord, error)
	UpdateAttendanceCategory(ctx context.Context, id string, newCategory, previous models.Category, actorUID, actorEmail string) error
	DeleteAttendance(ctx context.Context, id string) error
	QueryAttendance(ctx context.Context, f *api.AttendanceFilters) ([]*models.AttendanceRecord, error)

	// Students
	GetStudent(ctx context.Context, regNo string) (*models.Student, error)
	UpsertStudents(ctx context.Context, students []*models.Student) (int, error)

	// Session configs
	GetSessionConfig(ctx context.Context, dateKey string) (*models.SessionConfig, error)
	UpsertSessionConfig(ctx context.Context, cfg *models.SessionConfig) error
}

// #### scan workflow ####

// Scan runs one scan event end to end: resolve the student, decide the target
// category, consult the ledger for an existing record, then either create a
// record or (with confirmation) change the existing record's category.
//
// The cache is only mutated from confirmed store responses, so a failed write
// leaves local state untouched.
func (s *Service) Scan(ctx context.Context, req *api.ScanRequest) (*api.ScanResult, error) {
	const op = "service.Scan"

	// Resolving
	regNo := cache.Key(req.RegNo)
	if regNo == "" {
		s.metrics.ObserveScan("bad_request")
		return nil, fmt.Errorf("%s: %w", op, response.ErrBadRequest)
	}

	student, err := s.store.GetStudent(ctx, regNo)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			s.metrics.ObserveScan("not_found")
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		s.metrics.ObserveStoreFailure()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg, err := s.store.GetSessionConfig(ctx, req.Date)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			s.metrics.ObserveScan("not_found")
			return nil, fmt.Errorf("%s: no sessions configured: %w", op, response.ErrNotFound)
		}
		s.metrics.ObserveStoreFailure()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !cfg.Active(req.SessionIndex) {
		s.metrics.ObserveScan("bad_request")
		return nil, fmt.Errorf("%s: session %d is not active on %s: %w", op, req.SessionIndex, req.Date, response.ErrBadRequest)
	}

	sessionID := models.SessionID(req.Date, req.SessionIndex)

	// Deciding
	category, ok := targetCategory(models.ScanPage(req.Page), student)
	if !ok {
		s.metrics.ObserveScan("ineligible")
		return nil, fmt.Errorf("%s: %w", op, response.ErrIneligible)
	}

	existing, err := s.findExisting(ctx, regNo, sessionID)
	if err != nil {
		s.metrics.ObserveStoreFailure()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if existing != nil {
		if existing.Category == category {
			s.metrics.ObserveScan("duplicate")
			return nil, fmt.Errorf("%s: %w", op, response.ErrDuplicate)
		}

		if !req.ConfirmChange {
			s.metrics.ObserveScan("conflict")
			return nil, fmt.Errorf("%s: %w", op, response.ErrCategoryConflict)
		}

		rec, err := s.changeCategory(ctx, existing, category, req.CoordinatorUID, req.CoordinatorEmail)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		s.metrics.ObserveScan("changed")

		return &api.ScanResult{
			Outcome:    api.OutcomeChanged,
			Attendance: *toAttendanceResponse(rec),
		}, nil
	}

	// Committing: create
	lockKey := fmt.Sprintf("%s:%s", sessionID, regNo)

	locked, err := s.locker.Lock(ctx, lockKey, commitLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		s.metrics.ObserveScan("locked")
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	rec := &models.AttendanceRecord{
		RegNo:            regNo,
		StudentName:      student.Name,
		Committee:        student.Committee,
		Hostel:           student.Hostel,
		RoomNumber:       student.RoomNumber,
		Department:       student.Department,
		PhoneNumber:      student.PhoneNumber,
		Category:         category,
		CoordinatorUID:   req.CoordinatorUID,
		CoordinatorEmail: req.CoordinatorEmail,
		DateKey:          req.Date,
		SessionID:        sessionID,
		SessionName:      cfg.Name(req.SessionIndex),
		SessionIndex:     req.SessionIndex,
	}

	id, err := s.store.CreateAttendance(ctx, rec)
	if err != nil {
		if errors.Is(err, response.ErrDuplicate) {
			// Lost a cross-instance race; the store's uniqueness constraint
			// caught the second insert.
			s.metrics.ObserveScan("duplicate")
			return nil, fmt.Errorf("%s: %w", op, response.ErrDuplicate)
		}
		s.metrics.ObserveStoreFailure()
		return nil, fmt.Errorf("%s: create: %w", op, err)
	}

	created, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		s.metrics.ObserveStoreFailure()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Add(sessionID, regNo, created)
	s.metrics.ObserveScan("created")

	return &api.ScanResult{
		Outcome:    api.OutcomeCreated,
		Attendance: *toAttendanceResponse(created),
	}, nil
}

// targetCategory resolves which single category this scan context may mark.
func targetCategory(page models.ScanPage, student *models.Student) (models.Category, bool) {
	switch page {
	case models.PageLab:
		if student.LabEligible {
			return models.CategoryLab, true
		}
	case models.PageDuty:
		if student.ODEligible {
			return models.CategoryOD, true
		}
		if student.ScholarshipEligible {
			return models.CategoryScholarship, true
		}
	}

	return "", false
}

// #### ledger ####

// FindExisting returns the most recent record for the pair, or nil. The
// session cache answers negatives once a session's membership is known; a
// cold session is loaded from the store in full so later negatives can be
// trusted.
func (s *Service) FindExisting(ctx context.Context, regNo, sessionID string) (*api.AttendanceResponse, error) {
	const op = "service.FindExisting"

	rec, err := s.findExisting(ctx, cache.Key(regNo), sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rec == nil {
		return nil, nil
	}

	return toAttendanceResponse(rec), nil
}

func (s *Service) findExisting(ctx context.Context, studentKey, sessionID string) (*models.AttendanceRecord, error) {
	present, known := s.cache.Contains(sessionID, studentKey)

	if known && !present {
		s.metrics.ObserveCacheHit()
		return nil, nil
	}

	if known && present {
		if rec := s.cache.Record(sessionID, studentKey); rec != nil {
			s.metrics.ObserveCacheHit()
			return rec, nil
		}

		// Member, but no snapshot held; fetch the record itself.
		rec, err := s.store.FindAttendance(ctx, sessionID, studentKey)
		if err != nil {
			if errors.Is(err, response.ErrNotFound) {
				// Store disagrees with the cache; the cache is only an
				// optimization, so the store wins.
				s.cache.Remove(sessionID, studentKey)
				return nil, nil
			}
			return nil, err
		}

		s.cache.Add(sessionID, studentKey, rec)
		return rec, nil
	}

	// Cold session: load the full membership once, then answer from cache.
	s.metrics.ObserveCacheMiss()

	records, err := s.store.ListSessionAttendance(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}

	s.cache.ReplaceSession(sessionID, records)

	return s.cache.Record(sessionID, studentKey), nil
}

// PreloadSession warms the cache for a session before a scanning burst.
func (s *Service) PreloadSession(ctx context.Context, dateKey string, req *api.PreloadRequest) (int, error) {
	const op = "service.PreloadSession"

	var category *models.Category
	if req.Category != "" {
		c := models.Category(req.Category)
		if !c.Valid() {
			return 0, fmt.Errorf("%s: invalid category %q: %w", op, req.Category, response.ErrBadRequest)
		}
		category = &c
	}

	sessionID := models.SessionID(dateKey, req.SessionIndex)

	records, err := s.store.ListSessionAttendance(ctx, sessionID, category)
	if err != nil {
		s.metrics.ObserveStoreFailure()
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.ReplaceSession(sessionID, records)

	return len(records), nil
}

func (s *Service) GetAttendance(ctx context.Context, id string) (*api.AttendanceResponse, error) {
	const op = "service.GetAttendance"

	rec, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toAttendanceResponse(rec), nil
}

func (s *Service) ListAttendance(ctx context.Context, f *api.AttendanceFilters) ([]*api.AttendanceResponse, error) {
	const op = "service.ListAttendance"

	if f.Category != nil && !models.Category(*f.Category).Valid() {
		return nil, fmt.Errorf("%s: invalid category %q: %w", op, *f.Category, response.ErrBadRequest)
	}

	records, err := s.store.QueryAttendance(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]*api.AttendanceResponse, len(records))
	for i, rec := range records {
		out[i] = toAttendanceResponse(rec)
	}

	return out, nil
}

// UpdateCategory is the only mutation path for an existing record's category.
func (s *Service) UpdateCategory(ctx context.Context, id string, req *api.UpdateCategoryRequest) (*api.AttendanceResponse, error) {
	const op = "service.UpdateCategory"

	newCategory := models.Category(req.Category)
	if !newCategory.Valid() {
		return nil, fmt.Errorf("%s: invalid category %q: %w", op, req.Category, response.ErrBadRequest)
	}

	existing, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if existing.Category == newCategory {
		return nil, fmt.Errorf("%s: %w", op, response.ErrDuplicate)
	}

	rec, err := s.changeCategory(ctx, existing, newCategory, req.CoordinatorUID, req.CoordinatorEmail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toAttendanceResponse(rec), nil
}

func (s *Service) changeCategory(ctx context.Context, existing *models.AttendanceRecord, newCategory models.Category, actorUID, actorEmail string) (*models.AttendanceRecord, error) {
	err := s.store.UpdateAttendanceCategory(ctx, existing.ID, newCategory, existing.Category, actorUID, actorEmail)
	if err != nil {
		s.metrics.ObserveStoreFailure()
		return nil, err
	}

	rec, err := s.store.GetAttendance(ctx, existing.ID)
	if err != nil {
		s.metrics.ObserveStoreFailure()
		return nil, err
	}

	s.cache.Add(rec.SessionID, cache.Key(rec.RegNo), rec)

	return rec, nil
}

// DeleteAttendance removes a record and its cache membership. Cache removal
// happens only after the store confirms the delete.
func (s *Service) DeleteAttendance(ctx context.Context, id string) error {
	const op = "service.DeleteAttendance"

	rec, err := s.store.GetAttendance(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.DeleteAttendance(ctx, id); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		s.metrics.ObserveStoreFailure()
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Remove(rec.SessionID, cache.Key(rec.RegNo))

	return nil
}

// ClearSessionCache drops cached membership. An empty sessionID resets the
// whole cache (operator changed session context or logged out).
func (s *Service) ClearSessionCache(sessionID string) {
	if sessionID == "" {
		s.cache.Reset()
		return
	}

	s.cache.Clear(sessionID)
}

// #### students / session configs ####

func (s *Service) GetStudent(ctx context.Context, regNo string) (*api.StudentResponse, error) {
	const op = "service.GetStudent"

	student, err := s.store.GetStudent(ctx, cache.Key(regNo))
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toStudentResponse(student), nil
}

func (s *Service) UpsertStudents(ctx context.Context, reqs []api.StudentUpsert) (int, error) {
	const op = "service.UpsertStudents"

	students := make([]*models.Student, 0, len(reqs))

	for _, r := range reqs {
		regNo := cache.Key(r.RegNo)
		if regNo == "" || r.Name == "" {
			return 0, fmt.Errorf("%s: reg_no and student_name are required: %w", op, response.ErrBadRequest)
		}

		students = append(students, &models.Student{
			RegNo:               regNo,
			Name:                r.Name,
			Department:          r.Department,
			Committee:           r.Committee,
			Hostel:              r.Hostel,
			RoomNumber:          r.RoomNumber,
			PhoneNumber:         r.PhoneNumber,
			ODEligible:          r.ODEligible,
			ScholarshipEligible: r.ScholarshipEligible,
			LabEligible:         r.LabEligible,
		})
	}

	n, err := s.store.UpsertStudents(ctx, students)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Service) GetSessionConfig(ctx context.Context, dateKey string) (*api.SessionConfigResponse, error) {
	const op = "service.GetSessionConfig"

	cfg, err := s.store.GetSessionConfig(ctx, dateKey)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.SessionConfigResponse{
		Date:           cfg.DateKey,
		SessionCount:   cfg.SessionCount,
		SessionNames:   cfg.SessionNames,
		ActiveSessions: cfg.ActiveSessions,
	}, nil
}

func (s *Service) SetSessionConfig(ctx context.Context, dateKey string, req *api.SessionConfigRequest) (*api.SessionConfigResponse, error) {
	const op = "service.SetSessionConfig"

	if _, err := time.Parse("2006-01-02", dateKey); err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}

	if req.SessionCount <= 0 {
		return nil, fmt.Errorf("%s: session_count must be positive: %w", op, response.ErrBadRequest)
	}

	for _, idx := range req.ActiveSessions {
		if idx < 0 || idx >= req.SessionCount {
			return nil, fmt.Errorf("%s: active session %d out of range: %w", op, idx, response.ErrBadRequest)
		}
	}

	cfg := &models.SessionConfig{
		DateKey:        dateKey,
		SessionCount:   req.SessionCount,
		SessionNames:   req.SessionNames,
		ActiveSessions: req.ActiveSessions,
	}

	if err := s.store.UpsertSessionConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetSessionConfig(ctx, dateKey)
}

// #### conversions ####

func toAttendanceResponse(rec *models.AttendanceRecord) *api.AttendanceResponse {
	resp := &api.AttendanceResponse{
		ID:               rec.ID,
		RegNo:            rec.RegNo,
		StudentName:      rec.StudentName,
		Committee:        rec.Committee,
		Hostel:           rec.Hostel,
		RoomNumber:       rec.RoomNumber,
		Department:       rec.Department,
		PhoneNumber:      rec.PhoneNumber,
		Category:         string(rec.Category),
		CoordinatorUID:   rec.CoordinatorUID,
		CoordinatorEmail: rec.CoordinatorEmail,
		Date:             rec.DateKey,
		SessionID:        rec.SessionID,
		SessionName:      rec.SessionName,
		SessionIndex:     rec.SessionIndex,
		Timestamp:        rec.Timestamp,
	}

	if rec.PreviousCategory != nil {
		prev := string(*rec.PreviousCategory)
		resp.PreviousCategory = &prev
	}
	resp.LastUpdatedByUID = rec.LastUpdatedByUID
	resp.LastUpdatedByEmail = rec.LastUpdatedByEmail
	resp.LastUpdatedAt = rec.LastUpdatedAt

	return resp
}

func toStudentResponse(st *models.Student) *api.StudentResponse {
	return &api.StudentResponse{
		StudentUpsert: api.StudentUpsert{
			RegNo:               st.RegNo,
			Name:                st.Name,
			Department:          st.Department,
			Committee:           st.Committee,
			Hostel:              st.Hostel,
			RoomNumber:          st.RoomNumber,
			PhoneNumber:         st.PhoneNumber,
			ODEligible:          st.ODEligible,
			ScholarshipEligible: st.ScholarshipEligible,
			LabEligible:         st.LabEligible,
		},
	}
}
