package services

import "testing"

func TestNormalizeDriveLink(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantOK    bool
		wantID    string
		wantKind  DriveKind
		wantCanon string
	}{
		{
			name:      "drive file view link",
			raw:       "https://drive.google.com/file/d/1AbC_d-EF23/view?usp=drive_link",
			wantOK:    true,
			wantID:    "1AbC_d-EF23",
			wantKind:  DriveFile,
			wantCanon: "https://drive.google.com/file/d/1AbC_d-EF23/view?usp=sharing",
		},
		{
			name:      "drive legacy open?id link",
			raw:       "https://drive.google.com/open?id=1AbC_d-EF23",
			wantOK:    true,
			wantID:    "1AbC_d-EF23",
			wantKind:  DriveFile,
			wantCanon: "https://drive.google.com/file/d/1AbC_d-EF23/view?usp=sharing",
		},
		{
			name:      "docs edit link",
			raw:       "https://docs.google.com/document/d/DOC123/edit#heading=h.abc",
			wantOK:    true,
			wantID:    "DOC123",
			wantKind:  DriveDocument,
			wantCanon: "https://docs.google.com/document/d/DOC123/edit?usp=sharing",
		},
		{
			name:      "sheets link",
			raw:       "https://docs.google.com/spreadsheets/d/SHEET456/edit?gid=0",
			wantOK:    true,
			wantID:    "SHEET456",
			wantKind:  DriveSpreadsheet,
			wantCanon: "https://docs.google.com/spreadsheets/d/SHEET456/edit?usp=sharing",
		},
		{
			name:      "slides link",
			raw:       "https://docs.google.com/presentation/d/SLIDE789/edit?slide=id.p1",
			wantOK:    true,
			wantID:    "SLIDE789",
			wantKind:  DrivePresentation,
			wantCanon: "https://docs.google.com/presentation/d/SLIDE789/edit?usp=sharing",
		},
		{
			name:      "forms link",
			raw:       "https://docs.google.com/forms/d/FORM000/edit",
			wantOK:    true,
			wantID:    "FORM000",
			wantKind:  DriveForm,
			wantCanon: "https://docs.google.com/forms/d/FORM000/viewform?usp=sharing",
		},
		{
			name:      "forms published e/ link",
			raw:       "https://docs.google.com/forms/d/e/FAIpQLSe123/viewform",
			wantOK:    true,
			wantID:    "FAIpQLSe123",
			wantKind:  DriveForm,
			wantCanon: "https://docs.google.com/forms/d/e/FAIpQLSe123/viewform?usp=sharing",
		},
		{name: "youtube link", raw: "https://youtube.com/watch?v=1", wantOK: false},
		{name: "not a url", raw: "not-a-url", wantOK: false},
		{name: "empty", raw: "", wantOK: false},
		{name: "plain drive home", raw: "https://drive.google.com/drive/my-drive", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, ok := NormalizeDriveLink(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok: got=%v want=%v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if link.ResourceID != tt.wantID {
				t.Errorf("resource id: got=%q want=%q", link.ResourceID, tt.wantID)
			}
			if link.Kind != tt.wantKind {
				t.Errorf("kind: got=%q want=%q", link.Kind, tt.wantKind)
			}
			if link.CanonicalURL != tt.wantCanon {
				t.Errorf("canonical: got=%q want=%q", link.CanonicalURL, tt.wantCanon)
			}
		})
	}
}

// Form publish dùng id riêng dưới /forms/d/e/, id đó không mở được ở /forms/d/
// nên mọi URL dựng ra phải giữ nguyên phân đoạn e/
func TestNormalizeDriveLinkPublishedForm(t *testing.T) {
	raw := "https://docs.google.com/forms/d/e/1FAIpQLSe_published/viewform"

	link, ok := NormalizeDriveLink(raw)
	if !ok {
		t.Fatalf("normalize %q failed", raw)
	}
	if !link.Published {
		t.Error("published flag not set")
	}
	if link.ResourceID != "1FAIpQLSe_published" {
		t.Errorf("resource id: got=%q", link.ResourceID)
	}
	wantCanon := "https://docs.google.com/forms/d/e/1FAIpQLSe_published/viewform?usp=sharing"
	if link.CanonicalURL != wantCanon {
		t.Errorf("canonical: got=%q want=%q", link.CanonicalURL, wantCanon)
	}

	wantEmbed := "https://docs.google.com/forms/d/e/1FAIpQLSe_published/viewform?embedded=true"
	if got := EmbedURL(raw); got != wantEmbed {
		t.Errorf("embed: got=%q want=%q", got, wantEmbed)
	}

	second, ok := NormalizeDriveLink(link.CanonicalURL)
	if !ok {
		t.Fatalf("re-normalize %q failed", link.CanonicalURL)
	}
	if second.CanonicalURL != link.CanonicalURL || !second.Published {
		t.Errorf("not idempotent: %q -> %q (published=%v)", link.CanonicalURL, second.CanonicalURL, second.Published)
	}
}

// Chuẩn hóa lại URL đã chuẩn hóa phải ra đúng chính nó
func TestNormalizeDriveLinkIdempotent(t *testing.T) {
	raws := []string{
		"https://drive.google.com/file/d/1AbC_d-EF23/view",
		"https://docs.google.com/document/d/DOC123/edit",
		"https://docs.google.com/spreadsheets/d/SHEET456/edit",
		"https://docs.google.com/presentation/d/SLIDE789/edit",
		"https://docs.google.com/forms/d/FORM000/viewform",
	}
	for _, raw := range raws {
		first, ok := NormalizeDriveLink(raw)
		if !ok {
			t.Fatalf("normalize %q failed", raw)
		}
		second, ok := NormalizeDriveLink(first.CanonicalURL)
		if !ok {
			t.Fatalf("re-normalize %q failed", first.CanonicalURL)
		}
		if second.CanonicalURL != first.CanonicalURL {
			t.Errorf("not idempotent: %q -> %q", first.CanonicalURL, second.CanonicalURL)
		}
		if second.ResourceID != first.ResourceID || second.Kind != first.Kind {
			t.Errorf("id/kind changed on re-normalize for %q", raw)
		}
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://drive.google.com/file/d/FILE1/view?usp=sharing", "https://drive.google.com/file/d/FILE1/preview"},
		{"https://docs.google.com/document/d/DOC1/edit", "https://docs.google.com/document/d/DOC1/preview"},
		{"https://docs.google.com/spreadsheets/d/SHEET1/edit", "https://docs.google.com/spreadsheets/d/SHEET1/preview"},
		{"https://docs.google.com/presentation/d/SLIDE1/edit", "https://docs.google.com/presentation/d/SLIDE1/preview"},
		{"https://docs.google.com/forms/d/FORM1/viewform", "https://docs.google.com/forms/d/FORM1/viewform?embedded=true"},
		{"https://example.com/whatever", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EmbedURL(tt.raw); got != tt.want {
			t.Errorf("EmbedURL(%q): got=%q want=%q", tt.raw, got, tt.want)
		}
	}
}

// EmbedURL trả rỗng đúng khi và chỉ khi NormalizeDriveLink từ chối URL
func TestEmbedURLMatchesNormalize(t *testing.T) {
	raws := []string{
		"https://drive.google.com/file/d/FILE1/view",
		"https://docs.google.com/forms/d/FORM1/viewform",
		"https://youtube.com/watch?v=1",
		"not-a-url",
		"",
	}
	for _, raw := range raws {
		_, ok := NormalizeDriveLink(raw)
		embed := EmbedURL(raw)
		if ok && embed == "" {
			t.Errorf("%q: normalizable but no embed url", raw)
		}
		if !ok && embed != "" {
			t.Errorf("%q: not normalizable but embed url %q", raw, embed)
		}
	}
}
