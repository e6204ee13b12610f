package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Grade       int        `gorm:"not null;index" json:"grade"` // khối lớp 1-12
	Description string     `gorm:"type:text" json:"description"`
	Icon        string     `gorm:"size:100" json:"icon"`
	Color       string     `gorm:"size:30" json:"color"`
	Slug        string     `gorm:"size:255;index" json:"slug"` // slug cho URL thân thiện
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User     *User     `gorm:"foreignKey:CreatedBy" json:"user,omitempty"`
	Chapters []Chapter `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
