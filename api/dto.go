package api

import "time"

type ScanRequest struct {
	RegNo            string `json:"reg_no"`
	Date             string `json:"date"`
	SessionIndex     int    `json:"session_index"`
	Page             string `json:"page"`
	ConfirmChange    bool   `json:"confirm_change,omitempty"`
	CoordinatorUID   string `json:"coordinator_uid"`
	CoordinatorEmail string `json:"coordinator_email"`
}

type ScanResult struct {
	Outcome    string             `json:"outcome"`
	Attendance AttendanceResponse `json:"attendance"`
}

const (
	OutcomeCreated = "created"
	OutcomeChanged = "changed"
)

type AttendanceResponse struct {
	ID               string    `json:"id"`
	RegNo            string    `json:"reg_no"`
	StudentName      string    `json:"student_name"`
	Committee        string    `json:"committee,omitempty"`
	Hostel           string    `json:"hostel,omitempty"`
	RoomNumber       string    `json:"room_number,omitempty"`
	Department       string    `json:"department,omitempty"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
	Category         string    `json:"category"`
	CoordinatorUID   string    `json:"coordinator_uid"`
	CoordinatorEmail string    `json:"coordinator_email"`
	Date             string    `json:"date"`
	SessionID        string    `json:"session_id"`
	SessionName      string    `json:"session_name"`
	SessionIndex     int       `json:"session_index"`
	Timestamp        time.Time `json:"timestamp"`

	PreviousCategory   *string    `json:"previous_category,omitempty"`
	LastUpdatedByUID   *string    `json:"last_updated_by_uid,omitempty"`
	LastUpdatedByEmail *string    `json:"last_updated_by_email,omitempty"`
	LastUpdatedAt      *time.Time `json:"last_updated_at,omitempty"`
}

type AttendanceFilters struct {
	Date        string
	Category    *string
	Coordinator *string
	SessionID   *string
}

type UpdateCategoryRequest struct {
	Category         string `json:"category"`
	CoordinatorUID   string `json:"coordinator_uid"`
	CoordinatorEmail string `json:"coordinator_email"`
}

type PreloadRequest struct {
	SessionIndex int    `json:"session_index"`
	Category     string `json:"category,omitempty"`
}

type StudentUpsert struct {
	RegNo       string `json:"reg_no"`
	Name        string `json:"student_name"`
	Department  string `json:"department,omitempty"`
	Committee   string `json:"committee,omitempty"`
	Hostel      string `json:"hostel,omitempty"`
	RoomNumber  string `json:"room_number,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`

	ODEligible          bool `json:"od_eligible"`
	ScholarshipEligible bool `json:"scholarship_eligible"`
	LabEligible         bool `json:"lab_eligible"`
}

type StudentResponse struct {
	StudentUpsert
}

type SessionConfigRequest struct {
	SessionCount   int      `json:"session_count"`
	SessionNames   []string `json:"session_names"`
	ActiveSessions []int    `json:"active_sessions"`
}

type SessionConfigResponse struct {
	Date           string   `json:"date"`
	SessionCount   int      `json:"session_count"`
	SessionNames   []string `json:"session_names"`
	ActiveSessions []int    `json:"active_sessions"`
}
