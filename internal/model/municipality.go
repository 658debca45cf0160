package model

import (
	"time"

	"github.com/google/uuid"
)

// Municipality is the taxing authority taxes are attached to. Entries are
// created lazily the first time a tax references an unknown name and are
// never deleted.
type Municipality struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
