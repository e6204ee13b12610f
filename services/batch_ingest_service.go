package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/models"
)

type BatchItemResult struct {
	Success  bool                  `json:"success"`
	Material *models.StudyMaterial `json:"data,omitempty"`
	Error    string                `json:"error,omitempty"`
	URL      string                `json:"url"`
	Title    string                `json:"title"`
}

type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type BatchResult struct {
	Success bool              `json:"success"` // true nếu ít nhất 1 dòng thành công
	Results []BatchItemResult `json:"results"`
	Summary BatchSummary      `json:"summary"`
}

// BatchIngest xử lý tuần tự từng yêu cầu, không chạy song song:
// giữ thứ tự lỗi theo dòng và tránh hai dòng cùng batch đua nhau tạo
// cùng một môn học/chương mới. Một dòng lỗi không dừng các dòng sau.
func BatchIngest(ctx context.Context, db *gorm.DB, reqs []IngestRequest) BatchResult {
	result := BatchResult{
		Results: make([]BatchItemResult, 0, len(reqs)),
	}

	for _, req := range reqs {
		item := BatchItemResult{URL: req.URL, Title: req.Title}

		material, ingErr := IngestLink(ctx, db, req)
		if ingErr != nil {
			item.Error = ingErr.Message
			result.Summary.Failed++
		} else {
			item.Success = true
			item.Material = material
			result.Summary.Successful++
		}

		result.Summary.Total++
		result.Results = append(result.Results, item)
	}

	result.Success = result.Summary.Successful > 0
	return result
}

// Các cột của file CSV mẫu (không phân biệt hoa thường)
// url,title,description,type,subject,chapter,grade

// ParseBatchCSV đọc file CSV tải lên thành danh sách IngestRequest.
// Dòng đầu là header; dòng thiếu url hoặc title bị bỏ qua (không tính là lỗi).
func ParseBatchCSV(r io.Reader, teacherID uuid.UUID) ([]IngestRequest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // chấp nhận số cột lệch giữa các dòng
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Map tên cột -> vị trí
	cols := make(map[string]int)
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var reqs []IngestRequest
	for _, row := range records[1:] {
		url := field(row, "url")
		title := field(row, "title")
		if url == "" || title == "" {
			continue // dòng trống hoặc thiếu dữ liệu bắt buộc
		}

		grade, _ := strconv.Atoi(field(row, "grade"))

		reqs = append(reqs, IngestRequest{
			URL:         url,
			Title:       title,
			Description: field(row, "description"),
			Type:        field(row, "type"),
			SubjectName: field(row, "subject"),
			ChapterName: field(row, "chapter"),
			Grade:       grade,
			TeacherID:   teacherID,
		})
	}

	return reqs, nil
}
