package services

import (
	"fmt"
	"regexp"
)

// Loại dịch vụ Google được hỗ trợ
type DriveKind string

const (
	DriveFile         DriveKind = "file"         // Google Drive file viewer
	DriveDocument     DriveKind = "document"     // Google Docs
	DriveSpreadsheet  DriveKind = "spreadsheet"  // Google Sheets
	DrivePresentation DriveKind = "presentation" // Google Slides
	DriveForm         DriveKind = "form"         // Google Forms
)

// DriveLink là kết quả chuẩn hóa một link Google Drive/Docs/Sheets/Slides/Forms
type DriveLink struct {
	ResourceID   string    `json:"resource_id"`
	Kind         DriveKind `json:"kind"`
	CanonicalURL string    `json:"canonical_url"`
	// Form đã publish dùng path /forms/d/e/{id}; id đó không mở được ở /forms/d/{id}
	// nên phải giữ nguyên phân đoạn e/ khi dựng URL.
	Published bool `json:"published,omitempty"`
}

// Các dạng URL nhận diện được. Giáo viên có thể copy link ở nhiều dạng
// (link edit, link share, link open?id=...) nên regex chỉ bám theo path chứa resource id.
var (
	reDriveFile     = regexp.MustCompile(`drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`)
	reDriveOpen     = regexp.MustCompile(`drive\.google\.com/open\?id=([a-zA-Z0-9_-]+)`)
	reDocument      = regexp.MustCompile(`docs\.google\.com/document/d/([a-zA-Z0-9_-]+)`)
	reSpreadsheet   = regexp.MustCompile(`docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	rePresentation  = regexp.MustCompile(`docs\.google\.com/presentation/d/([a-zA-Z0-9_-]+)`)
	rePublishedForm = regexp.MustCompile(`docs\.google\.com/forms/d/e/([a-zA-Z0-9_-]+)`)
	reForm          = regexp.MustCompile(`docs\.google\.com/forms/d/([a-zA-Z0-9_-]+)`)
)

// NormalizeDriveLink chuẩn hóa URL về dạng "universal access" ổn định.
// Trả về ok=false nếu URL không thuộc dạng nào được hỗ trợ.
// Hàm thuần túy, chạy lại trên URL đã chuẩn hóa cho ra cùng kết quả.
func NormalizeDriveLink(raw string) (*DriveLink, bool) {
	if raw == "" {
		return nil, false
	}

	if m := reDriveFile.FindStringSubmatch(raw); m != nil {
		return canonical(m[1], DriveFile), true
	}
	if m := reDriveOpen.FindStringSubmatch(raw); m != nil {
		// Dạng legacy open?id= trỏ về file viewer
		return canonical(m[1], DriveFile), true
	}
	if m := reDocument.FindStringSubmatch(raw); m != nil {
		return canonical(m[1], DriveDocument), true
	}
	if m := reSpreadsheet.FindStringSubmatch(raw); m != nil {
		return canonical(m[1], DriveSpreadsheet), true
	}
	if m := rePresentation.FindStringSubmatch(raw); m != nil {
		return canonical(m[1], DrivePresentation), true
	}
	// Phải kiểm tra dạng publish trước, nếu không reForm sẽ bắt nhầm "e" làm id
	if m := rePublishedForm.FindStringSubmatch(raw); m != nil {
		link := canonical(m[1], DriveForm)
		link.Published = true
		link.CanonicalURL = fmt.Sprintf("https://docs.google.com/forms/d/e/%s/viewform?usp=sharing", m[1])
		return link, true
	}
	if m := reForm.FindStringSubmatch(raw); m != nil {
		return canonical(m[1], DriveForm), true
	}

	return nil, false
}

func canonical(id string, kind DriveKind) *DriveLink {
	link := &DriveLink{ResourceID: id, Kind: kind}
	switch kind {
	case DriveFile:
		link.CanonicalURL = fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", id)
	case DriveDocument:
		link.CanonicalURL = fmt.Sprintf("https://docs.google.com/document/d/%s/edit?usp=sharing", id)
	case DriveSpreadsheet:
		link.CanonicalURL = fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit?usp=sharing", id)
	case DrivePresentation:
		link.CanonicalURL = fmt.Sprintf("https://docs.google.com/presentation/d/%s/edit?usp=sharing", id)
	case DriveForm:
		link.CanonicalURL = fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform?usp=sharing", id)
	}
	return link
}

// EmbedURL trả về URL nhúng iframe cho trang học sinh.
// Trả về chuỗi rỗng nếu URL không chuẩn hóa được.
func EmbedURL(raw string) string {
	link, ok := NormalizeDriveLink(raw)
	if !ok {
		return ""
	}
	switch link.Kind {
	case DriveFile:
		return fmt.Sprintf("https://drive.google.com/file/d/%s/preview", link.ResourceID)
	case DriveDocument:
		return fmt.Sprintf("https://docs.google.com/document/d/%s/preview", link.ResourceID)
	case DriveSpreadsheet:
		return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/preview", link.ResourceID)
	case DrivePresentation:
		return fmt.Sprintf("https://docs.google.com/presentation/d/%s/preview", link.ResourceID)
	case DriveForm:
		if link.Published {
			return fmt.Sprintf("https://docs.google.com/forms/d/e/%s/viewform?embedded=true", link.ResourceID)
		}
		return fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform?embedded=true", link.ResourceID)
	}
	return ""
}
