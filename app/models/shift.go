package models

import "time"

// RateType is how a worker's pay rate is quoted.
type RateType string

const (
	RatePerHour  RateType = "Per Hour"
	RatePerDay   RateType = "Per Day"
	RatePerWeek  RateType = "Per Week"
	RatePerMonth RateType = "Per Month"
)

// ValidRateType reports whether s is one of the supported rate types.
func ValidRateType(s string) bool {
	switch RateType(s) {
	case RatePerHour, RatePerDay, RatePerWeek, RatePerMonth:
		return true
	}
	return false
}

// ShiftRecord is one completed shift. Rows are written once when the shift is
// approved to end and are immutable afterwards except for deletion. Earnings
// is a cache of the shared calculator's output at write time, never ground
// truth.
type ShiftRecord struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID         string    `json:"user_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Employer       string    `json:"employer" gorm:"not null" validate:"required"`
	StartedAt      time.Time `json:"started_at" gorm:"not null"`
	EndedAt        time.Time `json:"ended_at" gorm:"not null"`
	BreakSeconds   int64     `json:"break_seconds" gorm:"not null;default:0"`
	PayRate        float64   `json:"pay_rate" gorm:"not null;type:numeric(12,2)"`
	RateType       RateType  `json:"rate_type" gorm:"not null;type:varchar(20)"`
	StartManager   string    `json:"start_manager" gorm:"not null"`
	EndManager     string    `json:"end_manager" gorm:"not null"`
	StartSignature string    `json:"start_signature" gorm:"type:text"`
	EndSignature   string    `json:"end_signature" gorm:"type:text"`
	Earnings       float64   `json:"earnings" gorm:"not null;type:numeric(12,2)"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	Breaks []*BreakInterval `json:"breaks,omitempty" gorm:"foreignKey:ShiftID;references:ID"`
}

// ElapsedSeconds is the wall-clock span of the shift, breaks included.
func (s *ShiftRecord) ElapsedSeconds() int64 {
	return int64(s.EndedAt.Sub(s.StartedAt) / time.Second)
}

// BreakInterval is one break taken during a shift. EndedAt is null while the
// break is still running.
type BreakInterval struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ShiftID   string     `json:"shift_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StartedAt time.Time  `json:"started_at" gorm:"not null"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
