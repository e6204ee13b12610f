package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/models"
)

type CreateChapterInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	OrderIndex  *int   `json:"order_index"` // không gửi thì xếp cuối
}

// POST /api/teacher/subjects/:id/chapters
func CreateChapter(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID môn học không hợp lệ"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy môn học"})
		return
	}

	var input CreateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tên chương bắt buộc"})
		return
	}

	orderIndex := 0
	if input.OrderIndex != nil {
		orderIndex = *input.OrderIndex
	} else {
		var count int64
		db.Model(&models.Chapter{}).Where("subject_id = ?", subjectID).Count(&count)
		orderIndex = int(count) + 1
	}

	chapter := models.Chapter{
		Name:        input.Name,
		Description: input.Description,
		SubjectID:   subjectID,
		OrderIndex:  orderIndex,
	}

	if err := db.Create(&chapter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo chương"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo chương thành công",
		"chapter": chapter,
	})
}

// GET /api/teacher/subjects/:id/chapters
func GetChapters(c *gin.Context) {
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

type UpdateChapterInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
}

// PUT /api/teacher/chapters/:id
func UpdateChapter(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	var chapter models.Chapter
	if err := db.First(&chapter, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương"})
		return
	}

	var input UpdateChapterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.OrderIndex != nil {
		updates["order_index"] = *input.OrderIndex
	}

	if err := db.Model(&chapter).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật chương"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật chương thành công",
		"chapter": chapter,
	})
}

// DELETE /api/teacher/chapters/:id
func DeleteChapter(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Param("id")
	chapterID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID không hợp lệ"})
		return
	}

	if err := db.Delete(&models.Chapter{}, "id = ?", chapterID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa chương"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa chương thành công"})
}
