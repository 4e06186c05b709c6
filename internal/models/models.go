package models

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryOD          Category = "od"
	CategoryScholarship Category = "scholarship"
	CategoryLab         Category = "lab"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryOD, CategoryScholarship, CategoryLab:
		return true
	default:
		return false
	}
}

// ScanPage identifies which scan surface produced a request. The lab page
// always targets the lab category; the duty page picks od or scholarship
// from the student's eligibility flags.
type ScanPage string

const (
	PageLab  ScanPage = "lab"
	PageDuty ScanPage = "duty"
)

type AttendanceRecord struct {
	ID               string    `db:"id"`
	RegNo            string    `db:"reg_no"`
	StudentName      string    `db:"student_name"`
	Committee        string    `db:"committee"`
	Hostel           string    `db:"hostel"`
	RoomNumber       string    `db:"room_number"`
	Department       string    `db:"department"`
	PhoneNumber      string    `db:"phone_number"`
	Category         Category  `db:"category"`
	CoordinatorUID   string    `db:"coordinator_uid"`
	CoordinatorEmail string    `db:"coordinator_email"`
	DateKey          string    `db:"date_key"`
	SessionID        string    `db:"session_id"`
	SessionName      string    `db:"session_name"`
	SessionIndex     int       `db:"session_index"`
	Timestamp        time.Time `db:"created_at"`

	// Audit fields, set only when the category changes after creation.
	PreviousCategory   *Category  `db:"previous_category"`
	LastUpdatedByUID   *string    `db:"last_updated_by_uid"`
	LastUpdatedByEmail *string    `db:"last_updated_by_email"`
	LastUpdatedAt      *time.Time `db:"last_updated_at"`
}

type Student struct {
	RegNo       string `db:"reg_no"`
	Name        string `db:"student_name"`
	Department  string `db:"department"`
	Committee   string `db:"committee"`
	Hostel      string `db:"hostel"`
	RoomNumber  string `db:"room_number"`
	PhoneNumber string `db:"phone_number"`

	ODEligible          bool `db:"od_eligible"`
	ScholarshipEligible bool `db:"scholarship_eligible"`
	LabEligible         bool `db:"lab_eligible"`
}

type SessionConfig struct {
	DateKey        string   `db:"date_key"`
	SessionCount   int      `db:"session_count"`
	SessionNames   []string `db:"session_names"`
	ActiveSessions []int    `db:"active_sessions"`
}

func (c *SessionConfig) Active(index int) bool {
	for _, i := range c.ActiveSessions {
		if i == index {
			return true
		}
	}
	return false
}

func (c *SessionConfig) Name(index int) string {
	if index >= 0 && index < len(c.SessionNames) {
		return c.SessionNames[index]
	}
	return fmt.Sprintf("Session %d", index+1)
}

// SessionID builds the composite slot key for a date, e.g. "2025-12-09-session-0".
func SessionID(dateKey string, index int) string {
	return fmt.Sprintf("%s-session-%d", dateKey, index)
}
