package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"attendance-service/api"
	"attendance-service/internal/models"
	"attendance-service/pkg/response"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### attendance ####

const attendanceColumns = `id, reg_no, student_name, committee, hostel, room_number,
	department, phone_number, category, coordinator_uid, coordinator_email,
	date_key, session_id, session_name, session_index, created_at,
	previous_category, last_updated_by_uid, last_updated_by_email, last_updated_at`

func scanAttendance(row interface{ Scan(...any) error }) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	var prevCategory, updatedByUID, updatedByEmail sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.RegNo,
		&rec.StudentName,
		&rec.Committee,
		&rec.Hostel,
		&rec.RoomNumber,
		&rec.Department,
		&rec.PhoneNumber,
		&rec.Category,
		&rec.CoordinatorUID,
		&rec.CoordinatorEmail,
		&rec.DateKey,
		&rec.SessionID,
		&rec.SessionName,
		&rec.SessionIndex,
		&rec.Timestamp,
		&prevCategory,
		&updatedByUID,
		&updatedByEmail,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if prevCategory.Valid {
		prev := models.Category(prevCategory.String)
		rec.PreviousCategory = &prev
	}
	if updatedByUID.Valid {
		rec.LastUpdatedByUID = &updatedByUID.String
	}
	if updatedByEmail.Valid {
		rec.LastUpdatedByEmail = &updatedByEmail.String
	}
	if updatedAt.Valid {
		rec.LastUpdatedAt = &updatedAt.Time
	}

	return &rec, nil
}

func (s *Storage) CreateAttendance(ctx context.Context, rec *models.AttendanceRecord) (string, error) {
	const op = "storage.postgres.CreateAttendance"

	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance
		(id, reg_no, student_name, committee, hostel, room_number,
		 department, phone_number, category, coordinator_uid, coordinator_email,
		 date_key, session_id, session_name, session_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		id,
		rec.RegNo,
		rec.StudentName,
		rec.Committee,
		rec.Hostel,
		rec.RoomNumber,
		rec.Department,
		rec.PhoneNumber,
		string(rec.Category),
		rec.CoordinatorUID,
		rec.CoordinatorEmail,
		rec.DateKey,
		rec.SessionID,
		rec.SessionName,
		rec.SessionIndex,
		time.Now().UTC(),
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, response.ErrDuplicate)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetAttendance(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	const op = "storage.postgres.GetAttendance"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE id=$1`, id)

	rec, err := scanAttendance(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

// FindAttendance returns the most recent record for a (student, session) pair,
// or ErrNotFound.
func (s *Storage) FindAttendance(ctx context.Context, sessionID, regNo string) (*models.AttendanceRecord, error) {
	const op = "storage.postgres.FindAttendance"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+`
		FROM attendance
		WHERE session_id=$1 AND reg_no=$2
		ORDER BY created_at DESC
		LIMIT 1`,
		sessionID, regNo)

	rec, err := scanAttendance(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rec, nil
}

func (s *Storage) ListSessionAttendance(ctx context.Context, sessionID string, category *models.Category) ([]*models.AttendanceRecord, error) {
	const op = "storage.postgres.ListSessionAttendance"

	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE session_id=$1`
	args := []any{sessionID}

	if category != nil {
		query += ` AND category=$2`
		args = append(args, string(*category))
	}

	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var records []*models.AttendanceRecord

	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

func (s *Storage) UpdateAttendanceCategory(ctx context.Context, id string, newCategory, previous models.Category, actorUID, actorEmail string) error {
	const op = "storage.postgres.UpdateAttendanceCategory"

	res, err := s.db.ExecContext(ctx, `
		UPDATE attendance
		SET category=$1,
			previous_category=$2,
			last_updated_by_uid=$3,
			last_updated_by_email=$4,
			last_updated_at=$5
		WHERE id=$6`,
		string(newCategory),
		string(previous),
		actorUID,
		actorEmail,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteAttendance(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteAttendance"

	res, err := s.db.ExecContext(ctx, `DELETE FROM attendance WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) QueryAttendance(ctx context.Context, f *api.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	const op = "storage.postgres.QueryAttendance"

	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE date_key=$1`
	args := []any{f.Date}

	if f.Category != nil {
		args = append(args, *f.Category)
		query += fmt.Sprintf(` AND category=$%d`, len(args))
	}
	if f.Coordinator != nil {
		args = append(args, *f.Coordinator)
		query += fmt.Sprintf(` AND coordinator_uid=$%d`, len(args))
	}
	if f.SessionID != nil {
		args = append(args, *f.SessionID)
		query += fmt.Sprintf(` AND session_id=$%d`, len(args))
	}

	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var records []*models.AttendanceRecord

	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

// #### students ####

func (s *Storage) GetStudent(ctx context.Context, regNo string) (*models.Student, error) {
	const op = "storage.postgres.GetStudent"

	var student models.Student

	err := s.db.QueryRowContext(ctx, `
		SELECT reg_no, student_name, department, committee, hostel, room_number,
			phone_number, od_eligible, scholarship_eligible, lab_eligible
		FROM students WHERE reg_no=$1`, regNo).
		Scan(
			&student.RegNo,
			&student.Name,
			&student.Department,
			&student.Committee,
			&student.Hostel,
			&student.RoomNumber,
			&student.PhoneNumber,
			&student.ODEligible,
			&student.ScholarshipEligible,
			&student.LabEligible,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &student, nil
}

func (s *Storage) UpsertStudents(ctx context.Context, students []*models.Student) (int, error) {
	const op = "storage.postgres.UpsertStudents"

	if len(students) == 0 {
		return 0, nil
	}

	var placeholders []string
	var args []any

	for i, st := range students {
		base := i * 10
		placeholders = append(placeholders, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		args = append(args,
			st.RegNo,
			st.Name,
			st.Department,
			st.Committee,
			st.Hostel,
			st.RoomNumber,
			st.PhoneNumber,
			st.ODEligible,
			st.ScholarshipEligible,
			st.LabEligible,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO students
		(reg_no, student_name, department, committee, hostel, room_number,
		 phone_number, od_eligible, scholarship_eligible, lab_eligible)
		VALUES %s
		ON CONFLICT (reg_no)
		DO UPDATE
		SET student_name = EXCLUDED.student_name,
			department = EXCLUDED.department,
			committee = EXCLUDED.committee,
			hostel = EXCLUDED.hostel,
			room_number = EXCLUDED.room_number,
			phone_number = EXCLUDED.phone_number,
			od_eligible = EXCLUDED.od_eligible,
			scholarship_eligible = EXCLUDED.scholarship_eligible,
			lab_eligible = EXCLUDED.lab_eligible;
		`,
		strings.Join(placeholders, ","),
	)

	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s exec: %w", op, err)
	}

	return len(students), nil
}

// #### session configs ####

func (s *Storage) GetSessionConfig(ctx context.Context, dateKey string) (*models.SessionConfig, error) {
	const op = "storage.postgres.GetSessionConfig"

	cfg := models.SessionConfig{DateKey: dateKey}

	var names pq.StringArray
	var active pq.Int64Array

	err := s.db.QueryRowContext(ctx, `
		SELECT session_count, session_names, active_sessions
		FROM session_configs WHERE date_key=$1`, dateKey).
		Scan(&cfg.SessionCount, &names, &active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cfg.SessionNames = []string(names)
	cfg.ActiveSessions = make([]int, len(active))
	for i, v := range active {
		cfg.ActiveSessions[i] = int(v)
	}

	return &cfg, nil
}

func (s *Storage) UpsertSessionConfig(ctx context.Context, cfg *models.SessionConfig) error {
	const op = "storage.postgres.UpsertSessionConfig"

	active := make(pq.Int64Array, len(cfg.ActiveSessions))
	for i, v := range cfg.ActiveSessions {
		active[i] = int64(v)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_configs (date_key, session_count, session_names, active_sessions)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date_key)
		DO UPDATE
		SET session_count = EXCLUDED.session_count,
			session_names = EXCLUDED.session_names,
			active_sessions = EXCLUDED.active_sessions`,
		cfg.DateKey,
		cfg.SessionCount,
		pq.StringArray(cfg.SessionNames),
		active,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
