package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/minhanh/edushare-backend/models"
)

func TestStudentOnlySeesPublicMaterials(t *testing.T) {
	db := setupTestDB(t)
	teacherID := uuid.New()

	public := models.StudyMaterial{
		TeacherID: teacherID,
		Title:     "Bài công khai",
		Type:      models.MaterialTextbook,
		URL:       "https://drive.google.com/file/d/PUB/view?usp=sharing",
		Grade:     8,
		IsPublic:  true,
	}
	hidden := models.StudyMaterial{
		TeacherID: teacherID,
		Title:     "Bản nháp",
		Type:      models.MaterialTextbook,
		URL:       "https://drive.google.com/file/d/DRAFT/view?usp=sharing",
		Grade:     8,
		IsPublic:  false,
	}
	if err := db.Create(&public).Error; err != nil {
		t.Fatalf("create public: %v", err)
	}
	if err := db.Create(&hidden).Error; err != nil {
		t.Fatalf("create hidden: %v", err)
	}

	r := setupRouter(db, uuid.New(), string(models.RoleStudent))
	r.GET("/materials", StudentGetMaterials)

	req := httptest.NewRequest(http.MethodGet, "/materials?grade=8", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data  []models.StudyMaterial `json:"data"`
		Total int64                  `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("visible materials: got=%d want=1", len(resp.Data))
	}
	if resp.Data[0].Title != "Bài công khai" {
		t.Errorf("wrong material visible: %q", resp.Data[0].Title)
	}
}

func TestStudentMaterialDetailHasEmbedURL(t *testing.T) {
	db := setupTestDB(t)

	material := models.StudyMaterial{
		TeacherID: uuid.New(),
		Title:     "Slide bài giảng",
		Type:      models.MaterialPPT,
		URL:       "https://docs.google.com/presentation/d/SLIDE1/edit?usp=sharing",
		Grade:     11,
		IsPublic:  true,
	}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("create material: %v", err)
	}

	r := setupRouter(db, uuid.New(), string(models.RoleStudent))
	r.GET("/materials/:id", StudentGetMaterialDetail)

	req := httptest.NewRequest(http.MethodGet, "/materials/"+material.ID.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		EmbedURL string `json:"embed_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.EmbedURL != "https://docs.google.com/presentation/d/SLIDE1/preview" {
		t.Errorf("embed_url: got=%q", resp.EmbedURL)
	}
}
