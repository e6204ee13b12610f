package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/models"
)

// Mã lỗi trả về cho client khi ingest thất bại
const (
	ErrCodeInvalidURL     = "invalid_url"
	ErrCodeInaccessible   = "inaccessible"
	ErrCodeInvalidType    = "invalid_type"
	ErrCodeMissingField   = "missing_field"
	ErrCodeSubjectFailed  = "subject_failed"
	ErrCodeChapterFailed  = "chapter_failed"
	ErrCodeMaterialFailed = "material_failed"
)

type IngestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *IngestError) Error() string { return e.Message }

func ingestErr(code, format string, args ...interface{}) *IngestError {
	return &IngestError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IngestRequest là một yêu cầu thêm học liệu từ link (form đơn hoặc 1 dòng CSV)
type IngestRequest struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	SubjectName string    `json:"subject"`
	ChapterName string    `json:"chapter"`
	Grade       int       `json:"grade"`
	TeacherID   uuid.UUID `json:"-"`
	IsPublic    *bool     `json:"is_public"`
}

// IngestLink: chuẩn hóa link -> kiểm tra truy cập -> tìm/tạo môn học -> tìm/tạo chương
// -> lưu học liệu. Không rollback môn học/chương đã tạo nếu bước sau thất bại
// (dòng tạo dư vô hại, lần retry sau dùng lại được).
func IngestLink(ctx context.Context, db *gorm.DB, req IngestRequest) (*models.StudyMaterial, *IngestError) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ingestErr(ErrCodeMissingField, "Thiếu tiêu đề học liệu")
	}
	if !models.ValidMaterialType(req.Type) {
		return nil, ingestErr(ErrCodeInvalidType, "Loại học liệu không hợp lệ: %q", req.Type)
	}
	if req.Grade < 1 || req.Grade > 12 {
		return nil, ingestErr(ErrCodeMissingField, "Khối lớp phải từ 1 đến 12, nhận được %d", req.Grade)
	}
	if strings.TrimSpace(req.SubjectName) == "" {
		return nil, ingestErr(ErrCodeMissingField, "Thiếu tên môn học")
	}
	if strings.TrimSpace(req.ChapterName) == "" {
		return nil, ingestErr(ErrCodeMissingField, "Thiếu tên chương")
	}

	link, ok := NormalizeDriveLink(req.URL)
	if !ok {
		return nil, ingestErr(ErrCodeInvalidURL, "URL không được hỗ trợ: %q", req.URL)
	}

	if accessible, reason := VerifyAccessible(ctx, req.URL); !accessible {
		return nil, ingestErr(ErrCodeInaccessible, "Link không truy cập được: %s", reason)
	}

	subject, err := resolveSubject(db, req.SubjectName, req.Grade, req.TeacherID)
	if err != nil {
		return nil, ingestErr(ErrCodeSubjectFailed, "Không tạo được môn học %q (khối %d): %v", req.SubjectName, req.Grade, err)
	}

	chapter, err := resolveChapter(db, req.ChapterName, subject.ID)
	if err != nil {
		return nil, ingestErr(ErrCodeChapterFailed, "Không tạo được chương %q trong môn %q: %v", req.ChapterName, subject.Name, err)
	}

	isPublic := true // universal access: mặc định học sinh cùng khối đều xem được
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	material := models.StudyMaterial{
		TeacherID:   req.TeacherID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        models.MaterialType(req.Type),
		URL:         link.CanonicalURL,
		SubjectID:   &subject.ID,
		ChapterID:   &chapter.ID,
		Grade:       req.Grade,
		IsPublic:    isPublic,
	}
	if err := db.Create(&material).Error; err != nil {
		return nil, ingestErr(ErrCodeMaterialFailed, "Không lưu được học liệu %q: %v", req.Title, err)
	}

	material.Subject = subject
	material.Chapter = chapter
	return &material, nil
}

// resolveSubject tìm môn học theo (tên, khối) không phân biệt hoa thường, chưa có thì tạo mới
func resolveSubject(db *gorm.DB, name string, grade int, teacherID uuid.UUID) (*models.Subject, error) {
	name = strings.TrimSpace(name)

	var subject models.Subject
	err := db.Where("LOWER(name) = LOWER(?) AND grade = ?", name, grade).First(&subject).Error
	if err == nil {
		return &subject, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subject = models.Subject{
		Name:      name,
		Grade:     grade,
		Slug:      slug.Make(fmt.Sprintf("%s-khoi-%d", name, grade)),
		CreatedBy: &teacherID,
	}
	if err := db.Create(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

// resolveChapter tìm chương theo (tên, môn học), chưa có thì tạo với order_index = số chương hiện có + 1
func resolveChapter(db *gorm.DB, name string, subjectID uuid.UUID) (*models.Chapter, error) {
	name = strings.TrimSpace(name)

	var chapter models.Chapter
	err := db.Where("LOWER(name) = LOWER(?) AND subject_id = ?", name, subjectID).First(&chapter).Error
	if err == nil {
		return &chapter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Chapter{}).Where("subject_id = ?", subjectID).Count(&count).Error; err != nil {
		return nil, err
	}

	chapter = models.Chapter{
		Name:       name,
		SubjectID:  subjectID,
		OrderIndex: int(count) + 1,
	}
	if err := db.Create(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}
