package services

import (
	"context"
	"log"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// VerifyAccessible kiểm tra link có truy cập được hay không trước khi lưu.
// Không có GOOGLE_API_KEY thì chỉ kiểm tra dạng URL (mọi link chuẩn hóa được coi như truy cập được).
// Có GOOGLE_API_KEY thì gọi Drive API lấy metadata: 403/404 nghĩa là file không chia sẻ công khai.
func VerifyAccessible(ctx context.Context, raw string) (bool, string) {
	link, ok := NormalizeDriveLink(raw)
	if !ok {
		return false, "URL không thuộc dạng Google Drive/Docs/Sheets/Slides/Forms được hỗ trợ"
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return true, ""
	}

	// Forms không tra được qua Drive API bằng form id public
	if link.Kind == DriveForm {
		return true, ""
	}

	svc, err := drive.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Println("Không khởi tạo được Drive client:", err)
		return true, ""
	}

	_, err = svc.Files.Get(link.ResourceID).
		SupportsAllDrives(true).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok {
			if gerr.Code == 403 || gerr.Code == 404 {
				return false, "File chưa được chia sẻ công khai hoặc không tồn tại"
			}
		}
		// Lỗi mạng/API khác: không chặn việc lưu học liệu
		log.Println("Drive API lỗi, bỏ qua bước kiểm tra:", err)
		return true, ""
	}

	return true, ""
}
