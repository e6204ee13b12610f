package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/changefeed"
	"github.com/minhanh/edushare-backend/models"
	"github.com/minhanh/edushare-backend/utils"
)

// Cho phép test thay thế bước xóa file trên storage
var deleteStoredFile = utils.DeleteFileFromSupabase

// POST /api/teacher/materials/upload - giáo viên tải file trực tiếp thay vì dán link
func UploadMaterial(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file đính kèm"})
		return
	}
	if file.Size > 20*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File vượt quá 20MB"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu tiêu đề học liệu"})
		return
	}
	materialType := c.PostForm("type")
	if !models.ValidMaterialType(materialType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Loại học liệu không hợp lệ"})
		return
	}
	grade, err := strconv.Atoi(c.PostForm("grade"))
	if err != nil || grade < 1 || grade > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Khối lớp phải từ 1 đến 12"})
		return
	}

	materialID := uuid.New()

	publicURL, err := utils.UploadFileToSupabase(file, materialID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi upload Supabase", "details": err.Error()})
		return
	}

	material := models.StudyMaterial{
		ID:          materialID,
		TeacherID:   uid,
		Title:       title,
		Description: c.PostForm("description"),
		Type:        models.MaterialType(materialType),
		FilePath:    publicURL,
		Grade:       grade,
		IsPublic:    true,
	}

	// Gắn môn học/chương nếu form có gửi
	if subjectID := c.PostForm("subject_id"); subjectID != "" {
		if sid, err := uuid.Parse(subjectID); err == nil {
			material.SubjectID = &sid
		}
	}
	if chapterID := c.PostForm("chapter_id"); chapterID != "" {
		if cid, err := uuid.Parse(chapterID); err == nil {
			material.ChapterID = &cid
		}
	}

	if err := db.Create(&material).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được học liệu", "details": err.Error()})
		return
	}

	changefeed.PublishMaterial(changefeed.EventInsert, &material)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Tải lên thành công",
		"material": material,
	})
}

// GET /api/teacher/materials
func GetMaterials(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var materials []models.StudyMaterial
	query := db.Model(&models.StudyMaterial{})

	userIDStr := c.GetString("user_id")
	role := c.GetString("role")

	// Giáo viên chỉ thấy học liệu của mình; admin thấy tất cả
	if role == string(models.RoleTeacher) {
		query = query.Where("teacher_id = ?", userIDStr)
	}

	if t := c.Query("type"); t != "" && models.ValidMaterialType(t) {
		query = query.Where("type = ?", t)
	}
	if grade := c.Query("grade"); grade != "" {
		if g, err := strconv.Atoi(grade); err == nil {
			query = query.Where("grade = ?", g)
		}
	}
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if chapterID := c.Query("chapter_id"); chapterID != "" {
		query = query.Where("chapter_id = ?", chapterID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	// Phân trang
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đếm tổng số học liệu"})
		return
	}

	if err := query.Preload("Subject").Preload("Chapter").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách học liệu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  materials,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GET /api/teacher/materials/:id
func GetMaterialDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	var material models.StudyMaterial
	if err := db.Preload("Subject").Preload("Chapter").
		First(&material, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy học liệu"})
		return
	}

	c.JSON(http.StatusOK, material)
}

type UpdateMaterialInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Type        string  `json:"type"`
	IsPublic    *bool   `json:"is_public"`
}

// PUT /api/teacher/materials/:id
func UpdateMaterial(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	var material models.StudyMaterial
	if err := db.First(&material, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy học liệu"})
		return
	}

	// Chỉ giáo viên sở hữu hoặc admin được sửa
	role := c.GetString("role")
	userIDStr := c.GetString("user_id")
	if role != string(models.RoleAdmin) && material.TeacherID.String() != userIDStr {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền sửa học liệu này"})
		return
	}

	var input UpdateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Type != "" {
		if !models.ValidMaterialType(input.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Loại học liệu không hợp lệ"})
			return
		}
		updates["type"] = input.Type
	}
	if input.IsPublic != nil {
		updates["is_public"] = *input.IsPublic
	}

	if err := db.Model(&material).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật học liệu"})
		return
	}

	changefeed.PublishMaterial(changefeed.EventUpdate, &material)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Cập nhật học liệu thành công",
		"material": material,
	})
}

// DELETE /api/teacher/materials/:id
// Xóa record luôn thành công kể cả khi xóa file trên storage thất bại (chỉ log lại).
func DeleteMaterial(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	materialID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var material models.StudyMaterial
	if err := db.First(&material, "id = ?", materialID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy học liệu"})
		return
	}

	role := c.GetString("role")
	userIDStr := c.GetString("user_id")
	if role != string(models.RoleAdmin) && material.TeacherID.String() != userIDStr {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xóa học liệu này"})
		return
	}

	if err := db.Delete(&models.StudyMaterial{}, "id = ?", materialID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa học liệu"})
		return
	}

	// Best-effort: dọn file đã upload, lỗi không chặn việc xóa record
	if material.FilePath != "" {
		if err := deleteStoredFile(material.FilePath); err != nil {
			log.Printf("Không xóa được file storage của học liệu %s: %v", materialID, err)
		}
	}

	changefeed.PublishMaterial(changefeed.EventDelete, &material)

	c.JSON(http.StatusOK, gin.H{"message": "Xóa học liệu thành công"})
}
