package model

import "testing"

func TestResourceClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		html        bool
		image       bool
	}{
		{"plain html", "text/html", true, false},
		{"html with charset", "text/html; charset=utf-8", true, false},
		{"png", "image/png", false, true},
		{"jpeg", "image/jpeg", false, true},
		{"json", "application/json", false, false},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &Resource{ContentType: tt.contentType}
			if r.IsHTML() != tt.html {
				t.Errorf("IsHTML() = %v, expected %v", r.IsHTML(), tt.html)
			}
			if r.IsImage() != tt.image {
				t.Errorf("IsImage() = %v, expected %v", r.IsImage(), tt.image)
			}
		})
	}
}

func TestResourceMD5(t *testing.T) {
	t.Parallel()

	r := &Resource{Body: []byte("hello")}
	if got := r.MD5(); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("unexpected digest: %q", got)
	}

	same := &Resource{URL: "http://x.test/other.png", Body: []byte("hello")}
	if same.MD5() != r.MD5() {
		t.Error("identical bodies must hash equal regardless of URL")
	}

	empty := &Resource{}
	if got := empty.MD5(); got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("unexpected empty-body digest: %q", got)
	}
}
