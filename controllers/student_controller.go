package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/models"
	"github.com/minhanh/edushare-backend/services"
)

// GET /api/student/subjects?grade=8 - học sinh duyệt môn học theo khối
func StudentGetSubjects(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Subject{})

	if grade := c.Query("grade"); grade != "" {
		if g, err := strconv.Atoi(grade); err == nil {
			query = query.Where("grade = ?", g)
		}
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var subjects []models.Subject
	if err := query.Order("grade ASC, name ASC").Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách môn học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subjects})
}

// GET /api/student/subjects/:id/chapters
func StudentGetChapters(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID := c.Param("id")
	var chapters []models.Chapter
	if err := db.Where("subject_id = ?", subjectID).
		Order("order_index ASC, created_at ASC").
		Find(&chapters).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách chương"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": chapters})
}

// GET /api/student/materials - chỉ thấy học liệu public, lọc theo khối/môn/chương/loại
func StudentGetMaterials(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var materials []models.StudyMaterial
	query := db.Model(&models.StudyMaterial{}).Where("is_public = ?", true)

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
	if t := c.Query("type"); t != "" && models.ValidMaterialType(t) {
		query = query.Where("type = ?", t)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	// Phân trang
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
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

// GET /api/student/materials/:id - kèm embed_url để nhúng iframe
func StudentGetMaterialDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	var material models.StudyMaterial
	if err := db.Preload("Subject").Preload("Chapter").
		Where("is_public = ?", true).
		First(&material, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy học liệu"})
		return
	}

	embedURL := ""
	if material.URL != "" {
		embedURL = services.EmbedURL(material.URL)
	}

	c.JSON(http.StatusOK, gin.H{
		"material":  material,
		"embed_url": embedURL,
	})
}
