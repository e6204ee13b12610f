package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/changefeed"
	"github.com/minhanh/edushare-backend/services"
)

type IngestLinkInput struct {
	URL         string `json:"url" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Chapter     string `json:"chapter" binding:"required"`
	Grade       int    `json:"grade" binding:"required,min=1,max=12"`
	IsPublic    *bool  `json:"is_public"`
}

// POST /api/teacher/materials/link - thêm một học liệu từ link Google Drive
func IngestLink(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	var input IngestLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	material, ingErr := services.IngestLink(c.Request.Context(), db, services.IngestRequest{
		URL:         input.URL,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		SubjectName: input.Subject,
		ChapterName: input.Chapter,
		Grade:       input.Grade,
		TeacherID:   uid,
		IsPublic:    input.IsPublic,
	})
	if ingErr != nil {
		status := http.StatusBadRequest
		if ingErr.Code == services.ErrCodeSubjectFailed ||
			ingErr.Code == services.ErrCodeChapterFailed ||
			ingErr.Code == services.ErrCodeMaterialFailed {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"success": false, "code": ingErr.Code, "error": ingErr.Message})
		return
	}

	changefeed.PublishMaterial(changefeed.EventInsert, material)

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Thêm học liệu thành công",
		"material": material,
	})
}

// POST /api/teacher/materials/batch - upload file CSV thêm nhiều học liệu một lần.
// File mẫu: url,title,description,type,subject,chapter,grade
func BatchIngest(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có file CSV đính kèm"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file CSV"})
		return
	}
	defer file.Close()

	reqs, err := services.ParseBatchCSV(file, uid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File CSV không hợp lệ", "details": err.Error()})
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File CSV không có dòng dữ liệu hợp lệ nào"})
		return
	}

	result := services.BatchIngest(c.Request.Context(), db, reqs)

	// Chỉ phát sự kiện cho các dòng đã ghi thành công
	for _, item := range result.Results {
		if item.Success {
			changefeed.PublishMaterial(changefeed.EventInsert, item.Material)
		}
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}
