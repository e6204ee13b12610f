package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// SendEmail gửi mail HTML qua SMTP. Host/port lấy từ env, mặc định Gmail.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")
	pass := os.Getenv("SMTP_PASSWORD")
	if from == "" || pass == "" {
		return fmt.Errorf("thiếu cấu hình SMTP_EMAIL/SMTP_PASSWORD")
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	var msg strings.Builder
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&msg, "From: EduShare <%s>\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", from, pass, host)
	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("gửi email thất bại: %v", err)
	}
	return nil
}
