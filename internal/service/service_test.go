package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-service/api"
	"attendance-service/internal/models"
	"attendance-service/pkg/response"
)

// fakeStore implements Store in memory and counts calls per method so the
// cache-trust tests can assert how many reads actually hit the store.
type fakeStore struct {
	mu sync.Mutex

	records  map[string]*models.AttendanceRecord
	students map[string]*models.Student
	configs  map[string]*models.SessionConfig

	calls map[string]int
	seq   int
	clock time.Time

	failCreate bool
	failUpdate bool
	failDelete bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:  make(map[string]*models.AttendanceRecord),
		students: make(map[string]*models.Student),
		configs:  make(map[string]*models.SessionConfig),
		calls:    make(map[string]int),
		clock:    time.Date(2025, 12, 9, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) count(method string) {
	f.calls[method]++
}

func (f *fakeStore) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
}

func (f *fakeStore) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeStore) sessionCount(sessionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, rec := range f.records {
		if rec.SessionID == sessionID {
			n++
		}
	}
	return n
}

func (f *fakeStore) CreateAttendance(_ context.Context, rec *models.AttendanceRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("CreateAttendance")

	if f.failCreate {
		return "", errors.New("store down")
	}

	for _, existing := range f.records {
		if existing.SessionID == rec.SessionID && existing.RegNo == rec.RegNo {
			return "", response.ErrDuplicate
		}
	}

	f.seq++
	f.clock = f.clock.Add(time.Second)

	stored := *rec
	stored.ID = fmt.Sprintf("rec-%d", f.seq)
	stored.Timestamp = f.clock
	f.records[stored.ID] = &stored

	return stored.ID, nil
}

func (f *fakeStore) GetAttendance(_ context.Context, id string) (*models.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetAttendance")

	rec, ok := f.records[id]
	if !ok {
		return nil, response.ErrNotFound
	}

	out := *rec
	return &out, nil
}

func (f *fakeStore) FindAttendance(_ context.Context, sessionID, regNo string) (*models.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("FindAttendance")

	var latest *models.AttendanceRecord
	for _, rec := range f.records {
		if rec.SessionID != sessionID || rec.RegNo != regNo {
			continue
		}
		if latest == nil || rec.Timestamp.After(latest.Timestamp) {
			latest = rec
		}
	}

	if latest == nil {
		return nil, response.ErrNotFound
	}

	out := *latest
	return &out, nil
}

func (f *fakeStore) ListSessionAttendance(_ context.Context, sessionID string, category *models.Category) ([]*models.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("ListSessionAttendance")

	var records []*models.AttendanceRecord
	for _, rec := range f.records {
		if rec.SessionID != sessionID {
			continue
		}
		if category != nil && rec.Category != *category {
			continue
		}
		out := *rec
		records = append(records, &out)
	}

	return records, nil
}

func (f *fakeStore) UpdateAttendanceCategory(_ context.Context, id string, newCategory, previous models.Category, actorUID, actorEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpdateAttendanceCategory")

	if f.failUpdate {
		return errors.New("store down")
	}

	rec, ok := f.records[id]
	if !ok {
		return response.ErrNotFound
	}

	f.clock = f.clock.Add(time.Second)
	now := f.clock

	rec.Category = newCategory
	rec.PreviousCategory = &previous
	rec.LastUpdatedByUID = &actorUID
	rec.LastUpdatedByEmail = &actorEmail
	rec.LastUpdatedAt = &now

	return nil
}

func (f *fakeStore) DeleteAttendance(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("DeleteAttendance")

	if f.failDelete {
		return errors.New("store down")
	}

	if _, ok := f.records[id]; !ok {
		return response.ErrNotFound
	}

	delete(f.records, id)
	return nil
}

func (f *fakeStore) QueryAttendance(_ context.Context, filters *api.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("QueryAttendance")

	var records []*models.AttendanceRecord
	for _, rec := range f.records {
		if rec.DateKey != filters.Date {
			continue
		}
		if filters.Category != nil && string(rec.Category) != *filters.Category {
			continue
		}
		if filters.Coordinator != nil && rec.CoordinatorUID != *filters.Coordinator {
			continue
		}
		if filters.SessionID != nil && rec.SessionID != *filters.SessionID {
			continue
		}
		out := *rec
		records = append(records, &out)
	}

	return records, nil
}

func (f *fakeStore) GetStudent(_ context.Context, regNo string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetStudent")

	st, ok := f.students[regNo]
	if !ok {
		return nil, response.ErrNotFound
	}

	out := *st
	return &out, nil
}

func (f *fakeStore) UpsertStudents(_ context.Context, students []*models.Student) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpsertStudents")

	for _, st := range students {
		out := *st
		f.students[st.RegNo] = &out
	}

	return len(students), nil
}

func (f *fakeStore) GetSessionConfig(_ context.Context, dateKey string) (*models.SessionConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetSessionConfig")

	cfg, ok := f.configs[dateKey]
	if !ok {
		return nil, response.ErrNotFound
	}

	out := *cfg
	return &out, nil
}

func (f *fakeStore) UpsertSessionConfig(_ context.Context, cfg *models.SessionConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UpsertSessionConfig")

	out := *cfg
	f.configs[cfg.DateKey] = &out
	return nil
}

type fakeLocker struct {
	mu      sync.Mutex
	deny    bool
	locks   int
	unlocks int
}

func (l *fakeLocker) Lock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks++
	return !l.deny, nil
}

func (l *fakeLocker) Unlock(_ context.Context, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocks++
	return nil
}

const (
	testDate      = "2025-12-09"
	testSessionID = "2025-12-09-session-0"
)

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeLocker) {
	t.Helper()

	store := newFakeStore()
	locker := &fakeLocker{}

	store.students["21BECE1001"] = &models.Student{
		RegNo:      "21BECE1001",
		Name:       "GRACE",
		Department: "ECE",
		Committee:  "Dance",
		Hostel:     "Hostel A",
		RoomNumber: "101",
		ODEligible: true,
	}
	store.students["URK24CS7095"] = &models.Student{
		RegNo:       "URK24CS7095",
		Name:        "MANJULATHA",
		Department:  "CSE",
		ODEligible:  true,
		LabEligible: true,
	}
	store.students["URK23CM4059"] = &models.Student{
		RegNo:               "URK23CM4059",
		Name:                "KIRAN",
		Department:          "CSE",
		ScholarshipEligible: true,
	}

	store.configs[testDate] = &models.SessionConfig{
		DateKey:        testDate,
		SessionCount:   2,
		SessionNames:   []string{"Morning Session", "Evening Session"},
		ActiveSessions: []int{0, 1},
	}

	return NewService(store, locker, nil), store, locker
}

func scanRequest(regNo, page string) *api.ScanRequest {
	return &api.ScanRequest{
		RegNo:            regNo,
		Date:             testDate,
		SessionIndex:     0,
		Page:             page,
		CoordinatorUID:   "coord-1",
		CoordinatorEmail: "coord@example.edu",
	}
}

func TestScan_CreatesRecord(t *testing.T) {
	svc, store, locker := newTestService(t)
	ctx := context.Background()

	result, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)

	assert.Equal(t, api.OutcomeCreated, result.Outcome)
	assert.Equal(t, "od", result.Attendance.Category)
	assert.Equal(t, "21BECE1001", result.Attendance.RegNo)
	assert.Equal(t, testSessionID, result.Attendance.SessionID)
	assert.Equal(t, "Morning Session", result.Attendance.SessionName)
	assert.Equal(t, "GRACE", result.Attendance.StudentName)
	assert.False(t, result.Attendance.Timestamp.IsZero())
	assert.Equal(t, 1, store.sessionCount(testSessionID))

	// Commit phase takes and releases the pair lock.
	assert.Equal(t, 1, locker.locks)
	assert.Equal(t, 1, locker.unlocks)
}

func TestScan_NormalizesIdentifier(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Scan(ctx, scanRequest("  21bece1001 ", "duty"))
	require.NoError(t, err)

	assert.Equal(t, "21BECE1001", result.Attendance.RegNo)
	assert.Equal(t, 1, store.sessionCount(testSessionID))
}

func TestScan_DuplicateSameCategory(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)

	_, err = svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.ErrorIs(t, err, response.ErrDuplicate)

	assert.Equal(t, 1, store.sessionCount(testSessionID))
}

func TestScan_UnknownStudent(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Scan(context.Background(), scanRequest("URK00XX0000", "duty"))
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestScan_Ineligible(t *testing.T) {
	svc, store, _ := newTestService(t)

	// Scholarship-only student on the lab page.
	_, err := svc.Scan(context.Background(), scanRequest("URK23CM4059", "lab"))
	assert.ErrorIs(t, err, response.ErrIneligible)
	assert.Equal(t, 0, store.sessionCount(testSessionID))
}

func TestScan_InactiveSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := scanRequest("21BECE1001", "duty")
	req.SessionIndex = 5

	_, err := svc.Scan(context.Background(), req)
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestScan_UnconfiguredDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := scanRequest("21BECE1001", "duty")
	req.Date = "2025-12-25"

	_, err := svc.Scan(context.Background(), req)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestScan_CategoryConflictRequiresConfirmation(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// URK24CS7095 is eligible for both lab and od.
	_, err := svc.Scan(ctx, scanRequest("URK24CS7095", "lab"))
	require.NoError(t, err)

	// Declined confirmation is a no-op.
	_, err = svc.Scan(ctx, scanRequest("URK24CS7095", "duty"))
	require.ErrorIs(t, err, response.ErrCategoryConflict)
	assert.Equal(t, 1, store.sessionCount(testSessionID))

	existing, err := svc.FindExisting(ctx, "URK24CS7095", testSessionID)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "lab", existing.Category)
}

func TestScan_ConfirmedCategoryChange(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Scan(ctx, scanRequest("URK24CS7095", "lab"))
	require.NoError(t, err)

	req := scanRequest("URK24CS7095", "duty")
	req.ConfirmChange = true

	result, err := svc.Scan(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, api.OutcomeChanged, result.Outcome)
	assert.Equal(t, created.Attendance.ID, result.Attendance.ID)
	assert.Equal(t, "od", result.Attendance.Category)
	require.NotNil(t, result.Attendance.PreviousCategory)
	assert.Equal(t, "lab", *result.Attendance.PreviousCategory)
	require.NotNil(t, result.Attendance.LastUpdatedByUID)
	assert.Equal(t, "coord-1", *result.Attendance.LastUpdatedByUID)
	assert.Equal(t, 1, store.sessionCount(testSessionID))
}

func TestScan_AtMostOneRecordPerPair(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// lab scan creates, unconfirmed duty scan is rejected, confirmed duty
	// scan mutates, repeat duty scan is a duplicate.
	_, err := svc.Scan(ctx, scanRequest("URK24CS7095", "lab"))
	require.NoError(t, err)

	_, err = svc.Scan(ctx, scanRequest("URK24CS7095", "duty"))
	require.ErrorIs(t, err, response.ErrCategoryConflict)

	confirm := scanRequest("URK24CS7095", "duty")
	confirm.ConfirmChange = true
	_, err = svc.Scan(ctx, confirm)
	require.NoError(t, err)

	_, err = svc.Scan(ctx, scanRequest("URK24CS7095", "duty"))
	require.ErrorIs(t, err, response.ErrDuplicate)

	assert.Equal(t, 1, store.sessionCount(testSessionID))

	existing, err := svc.FindExisting(ctx, "URK24CS7095", testSessionID)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "od", existing.Category)
}

func TestScan_Locked(t *testing.T) {
	svc, store, locker := newTestService(t)
	locker.deny = true

	_, err := svc.Scan(context.Background(), scanRequest("21BECE1001", "duty"))
	assert.ErrorIs(t, err, response.ErrLocked)
	assert.Equal(t, 0, store.sessionCount(testSessionID))
}

func TestScan_StoreFailureLeavesCacheUntouched(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	store.failCreate = true

	_, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.Error(t, err)

	store.failCreate = false

	// The failed write must not have poisoned the cache with a membership.
	result, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)
	assert.Equal(t, api.OutcomeCreated, result.Outcome)
}

func TestPreload_NegativeTrust(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)

	_, err = svc.PreloadSession(ctx, testDate, &api.PreloadRequest{SessionIndex: 0})
	require.NoError(t, err)

	store.resetCalls()

	existing, err := svc.FindExisting(ctx, "URK23CM4059", testSessionID)
	require.NoError(t, err)
	assert.Nil(t, existing)

	assert.Equal(t, 0, store.callCount("FindAttendance"), "trusted negative must not query the store")
	assert.Equal(t, 0, store.callCount("ListSessionAttendance"))
}

func TestPreload_ReturnsLoadedCount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)
	_, err = svc.Scan(ctx, scanRequest("URK24CS7095", "lab"))
	require.NoError(t, err)

	n, err := svc.PreloadSession(ctx, testDate, &api.PreloadRequest{SessionIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Category filter narrows the loaded membership.
	n, err = svc.PreloadSession(ctx, testDate, &api.PreloadRequest{SessionIndex: 0, Category: "lab"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPreload_InvalidCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.PreloadSession(context.Background(), testDate, &api.PreloadRequest{SessionIndex: 0, Category: "present"})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestFindExisting_CacheUpdateOnCreate(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)

	store.resetCalls()

	existing, err := svc.FindExisting(ctx, "21BECE1001", testSessionID)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "od", existing.Category)

	assert.Equal(t, 0, store.callCount("FindAttendance"), "cached record must be served without a store read")
	assert.Equal(t, 0, store.callCount("ListSessionAttendance"))
	assert.Equal(t, 0, store.callCount("GetAttendance"))
}

func TestFindExisting_CacheUpdateOnDelete(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)

	err = svc.DeleteAttendance(ctx, result.Attendance.ID)
	require.NoError(t, err)

	store.resetCalls()

	existing, err := svc.FindExisting(ctx, "21BECE1001", testSessionID)
	require.NoError(t, err)
	assert.Nil(t, existing)
	assert.Equal(t, 0, store.callCount("FindAttendance"))
}

func TestFindExisting_ColdSessionLoadsMembershipOnce(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	// Record created by another client: present in the store, unknown to the
	// cache.
	_, err := store.CreateAttendance(ctx, &models.AttendanceRecord{
		RegNo:     "21BECE1001",
		SessionID: testSessionID,
		DateKey:   testDate,
		Category:  models.CategoryOD,
	})
	require.NoError(t, err)
	store.resetCalls()

	existing, err := svc.FindExisting(ctx, "21BECE1001", testSessionID)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, 1, store.callCount("ListSessionAttendance"))

	store.resetCalls()

	// Second lookup, positive or negative, is cache-only.
	_, err = svc.FindExisting(ctx, "21BECE1001", testSessionID)
	require.NoError(t, err)
	existing, err = svc.FindExisting(ctx, "URK23CM4059", testSessionID)
	require.NoError(t, err)
	assert.Nil(t, existing)
	assert.Equal(t, 0, store.callCount("ListSessionAttendance"))
	assert.Equal(t, 0, store.callCount("FindAttendance"))
}

func TestClearSessionCache(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)

	svc.ClearSessionCache(testSessionID)
	store.resetCalls()

	existing, err := svc.FindExisting(ctx, "21BECE1001", testSessionID)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, 1, store.callCount("ListSessionAttendance"), "cleared session must be reloaded from the store")
}

func TestUpdateCategory_Audit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Scan(ctx, scanRequest("URK24CS7095", "lab"))
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, result.Attendance.ID, &api.UpdateCategoryRequest{
		Category:         "od",
		CoordinatorUID:   "admin-1",
		CoordinatorEmail: "admin@example.edu",
	})
	require.NoError(t, err)

	assert.Equal(t, "od", updated.Category)
	require.NotNil(t, updated.PreviousCategory)
	assert.Equal(t, "lab", *updated.PreviousCategory)
	require.NotNil(t, updated.LastUpdatedByUID)
	assert.Equal(t, "admin-1", *updated.LastUpdatedByUID)
	require.NotNil(t, updated.LastUpdatedByEmail)
	assert.Equal(t, "admin@example.edu", *updated.LastUpdatedByEmail)
	assert.NotNil(t, updated.LastUpdatedAt)
}

func TestUpdateCategory_SameCategoryRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Scan(ctx, scanRequest("URK24CS7095", "lab"))
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, result.Attendance.ID, &api.UpdateCategoryRequest{
		Category:       "lab",
		CoordinatorUID: "admin-1",
	})
	assert.ErrorIs(t, err, response.ErrDuplicate)
}

func TestUpdateCategory_InvalidCategory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateCategory(context.Background(), "rec-1", &api.UpdateCategoryRequest{Category: "present"})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestDeleteAttendance_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.DeleteAttendance(context.Background(), "missing")
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestListAttendance_Filters(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Scan(ctx, scanRequest("21BECE1001", "duty"))
	require.NoError(t, err)
	_, err = svc.Scan(ctx, scanRequest("URK24CS7095", "lab"))
	require.NoError(t, err)

	all, err := svc.ListAttendance(ctx, &api.AttendanceFilters{Date: testDate})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	lab := "lab"
	filtered, err := svc.ListAttendance(ctx, &api.AttendanceFilters{Date: testDate, Category: &lab})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "URK24CS7095", filtered[0].RegNo)

	_, err = svc.ListAttendance(ctx, &api.AttendanceFilters{Date: testDate, Category: strPtr("present")})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestUpsertStudents_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	n, err := svc.UpsertStudents(ctx, []api.StudentUpsert{
		{RegNo: "urk25cs0001", Name: "ARJUN", Department: "CSE", LabEligible: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Normalized key round-trips through lookup.
	student, err := svc.GetStudent(ctx, "URK25CS0001")
	require.NoError(t, err)
	assert.Equal(t, "URK25CS0001", student.RegNo)

	_, err = svc.UpsertStudents(ctx, []api.StudentUpsert{{RegNo: "", Name: "NO REG"}})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestSetSessionConfig_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	cfg, err := svc.SetSessionConfig(ctx, "2025-12-10", &api.SessionConfigRequest{
		SessionCount:   3,
		SessionNames:   []string{"Morning", "Afternoon", "Evening"},
		ActiveSessions: []int{0, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.SessionCount)
	assert.Equal(t, []int{0, 2}, cfg.ActiveSessions)

	_, err = svc.SetSessionConfig(ctx, "not-a-date", &api.SessionConfigRequest{SessionCount: 1})
	assert.ErrorIs(t, err, response.ErrBadRequest)

	_, err = svc.SetSessionConfig(ctx, "2025-12-10", &api.SessionConfigRequest{
		SessionCount:   2,
		ActiveSessions: []int{3},
	})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func strPtr(s string) *string { return &s }
