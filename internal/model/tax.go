package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Schedule enum constants
const (
	ScheduleWeekly  = "Weekly"
	ScheduleMonthly = "Monthly"
	ScheduleYearly  = "Yearly"
)

// Tax stores one municipal tax rate with temporal validity. EndDate is
// nullable: a nil end date means the tax is open-ended until superseded.
type Tax struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MunicipalityID uuid.UUID       `gorm:"type:uuid;not null;index" json:"municipality_id"`
	Municipality   *Municipality   `gorm:"foreignKey:MunicipalityID" json:"municipality,omitempty"`
	Value          decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"value"`
	Schedule       string          `gorm:"type:varchar(10);not null;index" json:"schedule"` // Weekly, Monthly, Yearly
	StartDate      time.Time       `gorm:"type:date;not null;index" json:"start_date"`
	EndDate        *time.Time      `gorm:"type:date;index" json:"end_date"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SameRange reports whether the tax covers exactly the given (start, end)
// pair. Two unset end dates count as the same range.
func (t *Tax) SameRange(start time.Time, end *time.Time) bool {
	if !t.StartDate.Equal(start) {
		return false
	}
	if t.EndDate == nil || end == nil {
		return t.EndDate == nil && end == nil
	}
	return t.EndDate.Equal(*end)
}
