package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/models"
)

// Input cho Create / Update
type CreateSubjectInput struct {
	Name        string `json:"name" binding:"required"`
	Grade       int    `json:"grade" binding:"required,min=1,max=12"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// POST /api/teacher/subjects
func CreateSubject(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên môn học và khối lớp bắt buộc"})
		return
	}

	// Lấy userID từ context
	var userUUID *uuid.UUID
	userIDStr := c.GetString("user_id")
	if userIDStr != "" {
		parsed, err := uuid.Parse(userIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
			return
		}
		userUUID = &parsed
	}

	// === Kiểm tra trùng (tên, khối) ===
	var count int64
	db.Model(&models.Subject{}).
		Where("LOWER(name) = LOWER(?) AND grade = ?", input.Name, input.Grade).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Môn học đã tồn tại trong khối này"})
		return
	}

	subject := models.Subject{
		Name:        input.Name,
		Grade:       input.Grade,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		CreatedBy:   userUUID,
		Slug:        slug.Make(fmt.Sprintf("%s-khoi-%d", input.Name, input.Grade)),
	}

	if err := db.Create(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo môn học"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo môn học thành công",
		"subject": subject,
	})
}

// GET /api/teacher/subjects
func GetSubjects(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	role := c.GetString("role")
	userIDStr := c.GetString("user_id")

	var subjects []models.Subject
	query := db.Model(&models.Subject{}).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		})

	// Giáo viên chỉ thấy môn của mình; admin thấy tất cả
	if role == string(models.RoleTeacher) {
		query = query.Where("subjects.created_by = ?", userIDStr)
	}

	// Lọc theo khối lớp
	if grade := c.Query("grade"); grade != "" {
		if g, err := strconv.Atoi(grade); err == nil {
			query = query.Where("subjects.grade = ?", g)
		}
	}

	// Tìm kiếm theo tên môn học
	if search := c.Query("search"); search != "" {
		query = query.Where("subjects.name ILIKE ?", "%"+search+"%")
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể đếm tổng số môn học"})
		return
	}

	if err := query.Order("grade ASC, name ASC").Limit(limit).Offset(offset).Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách môn học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  subjects,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GET /api/teacher/subjects/:id
func GetSubjectDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	var subject models.Subject
	if err := db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).First(&subject, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy môn học"})
		return
	}

	c.JSON(http.StatusOK, subject)
}

type UpdateSubjectInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
}

// PUT /api/teacher/subjects/:id
func UpdateSubject(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	var subject models.Subject
	if err := db.First(&subject, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy môn học"})
		return
	}

	// Chỉ chủ sở hữu hoặc admin được sửa
	role := c.GetString("role")
	userIDStr := c.GetString("user_id")
	if role != string(models.RoleAdmin) && (subject.CreatedBy == nil || subject.CreatedBy.String() != userIDStr) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền sửa môn học này"})
		return
	}

	var input UpdateSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
		updates["slug"] = slug.Make(fmt.Sprintf("%s-khoi-%d", input.Name, subject.Grade))
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Icon != nil {
		updates["icon"] = *input.Icon
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}

	if err := db.Model(&subject).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật môn học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật môn học thành công",
		"subject": subject,
	})
}

// DELETE /api/teacher/subjects/:id
func DeleteSubject(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	subjectID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy môn học"})
		return
	}

	role := c.GetString("role")
	userIDStr := c.GetString("user_id")
	if role != string(models.RoleAdmin) && (subject.CreatedBy == nil || subject.CreatedBy.String() != userIDStr) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền xóa môn học này"})
		return
	}

	// Xóa chương thuộc môn trước rồi xóa môn
	if err := db.Where("subject_id = ?", subjectID).Delete(&models.Chapter{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa chương của môn học"})
		return
	}
	if err := db.Delete(&models.Subject{}, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa môn học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa môn học thành công"})
}
