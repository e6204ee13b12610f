package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialType string

const (
	MaterialTextbook MaterialType = "textbook"
	MaterialVideo    MaterialType = "video"
	MaterialSummary  MaterialType = "summary"
	MaterialPPT      MaterialType = "ppt"
	MaterialQuiz     MaterialType = "quiz"
)

// ValidMaterialType kiểm tra loại học liệu hợp lệ
func ValidMaterialType(t string) bool {
	switch MaterialType(t) {
	case MaterialTextbook, MaterialVideo, MaterialSummary, MaterialPPT, MaterialQuiz:
		return true
	}
	return false
}

// StudyMaterial: một học liệu (link Google Drive hoặc file tải lên),
// gắn với môn học / chương / khối lớp. Chỉ dùng một trong hai: URL hoặc FilePath.
type StudyMaterial struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Teacher     *User        `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Type        MaterialType `gorm:"type:varchar(20);not null" json:"type"`
	URL         string       `gorm:"type:text" json:"url"`
	FilePath    string       `gorm:"type:text" json:"file_path"`
	SubjectID   *uuid.UUID   `gorm:"type:uuid;index" json:"subject_id"`
	ChapterID   *uuid.UUID   `gorm:"type:uuid;index" json:"chapter_id"`
	Grade       int          `gorm:"not null;index" json:"grade"`
	IsPublic    bool         `gorm:"default:true" json:"is_public"` // mặc định mọi học sinh cùng khối đều xem được
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

func (m *StudyMaterial) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
