package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minhanh/edushare-backend/middleware"
	"github.com/minhanh/edushare-backend/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Chapter{},
		&models.StudyMaterial{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// Router tối giản cho test: DB inject + giả lập auth đã chạy
func setupRouter(db *gorm.DB, userID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.DBMiddleware(db))
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Set("role", role)
		c.Next()
	})
	return r
}

// Xóa record phải thành công kể cả khi xóa file trên storage thất bại
func TestDeleteMaterialSurvivesStorageFailure(t *testing.T) {
	db := setupTestDB(t)
	teacherID := uuid.New()

	material := models.StudyMaterial{
		TeacherID: teacherID,
		Title:     "Đề cương ôn tập",
		Type:      models.MaterialTextbook,
		FilePath:  "https://example.supabase.co/storage/v1/object/public/uploads/materials/x.pdf",
		Grade:     9,
		IsPublic:  true,
	}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("create material: %v", err)
	}

	called := false
	orig := deleteStoredFile
	deleteStoredFile = func(string) error {
		called = true
		return errors.New("storage down")
	}
	defer func() { deleteStoredFile = orig }()

	r := setupRouter(db, teacherID, string(models.RoleTeacher))
	r.DELETE("/materials/:id", DeleteMaterial)

	req := httptest.NewRequest(http.MethodDelete, "/materials/"+material.ID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !called {
		t.Error("storage cleanup was not attempted")
	}

	var count int64
	db.Model(&models.StudyMaterial{}).Where("id = ?", material.ID).Count(&count)
	if count != 0 {
		t.Error("material row still present after delete")
	}
}

// Giáo viên khác không được xóa học liệu không thuộc về mình
func TestDeleteMaterialOwnership(t *testing.T) {
	db := setupTestDB(t)
	ownerID := uuid.New()
	otherID := uuid.New()

	material := models.StudyMaterial{
		TeacherID: ownerID,
		Title:     "Bài giảng",
		Type:      models.MaterialVideo,
		URL:       "https://drive.google.com/file/d/ABC/view?usp=sharing",
		Grade:     7,
		IsPublic:  true,
	}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("create material: %v", err)
	}

	r := setupRouter(db, otherID, string(models.RoleTeacher))
	r.DELETE("/materials/:id", DeleteMaterial)

	req := httptest.NewRequest(http.MethodDelete, "/materials/"+material.ID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusForbidden)
	}

	var count int64
	db.Model(&models.StudyMaterial{}).Where("id = ?", material.ID).Count(&count)
	if count != 1 {
		t.Error("material must not be deleted by a non-owner")
	}

	// Admin thì được
	r2 := setupRouter(db, otherID, string(models.RoleAdmin))
	r2.DELETE("/materials/:id", DeleteMaterial)

	req2 := httptest.NewRequest(http.MethodDelete, "/materials/"+material.ID.String(), nil)
	rec2 := httptest.NewRecorder()
	r2.ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusOK {
		t.Fatalf("admin delete status: got=%d want=%d", rec2.Code, http.StatusOK)
	}
}
