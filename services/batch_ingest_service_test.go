package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/minhanh/edushare-backend/models"
)

func TestParseBatchCSV(t *testing.T) {
	teacherID := uuid.New()

	csvText := "url,title,type,subject,chapter,grade\n" +
		"https://drive.google.com/file/d/ABC/view,T1,textbook,Math,Intro,8\n" +
		",,,,,"

	reqs, err := ParseBatchCSV(strings.NewReader(csvText), teacherID)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Dòng thiếu url/title bị bỏ qua, không tính là item
	if len(reqs) != 1 {
		t.Fatalf("requests: got=%d want=1", len(reqs))
	}

	req := reqs[0]
	if req.URL != "https://drive.google.com/file/d/ABC/view" {
		t.Errorf("url: got=%q", req.URL)
	}
	if req.Title != "T1" || req.Type != "textbook" {
		t.Errorf("title/type: got=%q/%q", req.Title, req.Type)
	}
	if req.SubjectName != "Math" || req.ChapterName != "Intro" || req.Grade != 8 {
		t.Errorf("taxonomy: got=%q/%q/%d", req.SubjectName, req.ChapterName, req.Grade)
	}
	if req.TeacherID != teacherID {
		t.Error("teacher id not propagated")
	}
}

func TestParseBatchCSVHeaderCaseInsensitive(t *testing.T) {
	csvText := "URL,Title,Description,TYPE,Subject,Chapter,GRADE\n" +
		"https://docs.google.com/document/d/D1/edit,Ôn tập,ghi chú,summary,Văn,Chương 1,6\n"

	reqs, err := ParseBatchCSV(strings.NewReader(csvText), uuid.New())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("requests: got=%d want=1", len(reqs))
	}
	if reqs[0].Description != "ghi chú" || reqs[0].Grade != 6 {
		t.Errorf("row mapping broken: %+v", reqs[0])
	}
}

func TestParseBatchCSVEmpty(t *testing.T) {
	reqs, err := ParseBatchCSV(strings.NewReader(""), uuid.New())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("requests: got=%d want=0", len(reqs))
	}
}

func TestBatchIngestPartialFailure(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	db := setupTestDB(t)
	teacherID := uuid.New()

	good1 := validRequest(teacherID)
	good2 := validRequest(teacherID)
	good2.URL = "https://docs.google.com/presentation/d/P1/edit"
	good2.Title = "Slide chương 2"
	good2.ChapterName = "Số thập phân"

	bad1 := validRequest(teacherID)
	bad1.URL = "https://youtube.com/watch?v=1"
	bad2 := validRequest(teacherID)
	bad2.Type = "mp3"

	result := BatchIngest(context.Background(), db, []IngestRequest{good1, bad1, good2, bad2})

	if !result.Success {
		t.Error("batch with at least one success must report success")
	}
	if result.Summary.Total != 4 {
		t.Errorf("total: got=%d want=4", result.Summary.Total)
	}
	if result.Summary.Successful != 2 || result.Summary.Failed != 2 {
		t.Errorf("successful/failed: got=%d/%d want=2/2", result.Summary.Successful, result.Summary.Failed)
	}
	if result.Summary.Successful+result.Summary.Failed != result.Summary.Total {
		t.Error("summary counts do not add up")
	}
	if len(result.Results) != 4 {
		t.Fatalf("results length: got=%d want=4", len(result.Results))
	}

	// Thứ tự kết quả theo thứ tự dòng, lỗi gắn đúng dòng
	if !result.Results[0].Success || result.Results[1].Success || !result.Results[2].Success || result.Results[3].Success {
		t.Errorf("per-item success flags wrong: %+v", result.Results)
	}
	if result.Results[1].URL != bad1.URL {
		t.Error("failed item should carry its url for attribution")
	}
	if result.Results[1].Error == "" || result.Results[3].Error == "" {
		t.Error("failed items must carry error messages")
	}

	// 2 dòng thành công cùng môn -> chỉ một subject được tạo
	var subjectCount int64
	db.Model(&models.Subject{}).Count(&subjectCount)
	if subjectCount != 1 {
		t.Errorf("subject count: got=%d want=1", subjectCount)
	}
}

func TestBatchIngestAllFail(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	db := setupTestDB(t)

	bad := validRequest(uuid.New())
	bad.URL = "not-a-url"

	result := BatchIngest(context.Background(), db, []IngestRequest{bad})
	if result.Success {
		t.Error("batch with zero successes must not report success")
	}
	if result.Summary.Failed != 1 || result.Summary.Total != 1 {
		t.Errorf("summary: %+v", result.Summary)
	}
}
