package errors

import (
	"strings"
	"testing"
)

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple id", id: "sidenote-1", wantErr: false},
		{name: "uuid style", id: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 129), wantErr: true},
		{name: "whitespace", id: "cite card", wantErr: true},
		{name: "control character", id: "cite\x01card", wantErr: true},
		{name: "path traversal", id: "../secret", wantErr: true},
		{name: "path separator", id: "a/b", wantErr: true},
		{name: "backslash", id: "a\\b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidItem) {
				t.Errorf("ValidateItemID(%q) code = %v, want %v", tt.id, GetCode(err), ErrCodeInvalidItem)
			}
		})
	}
}

func TestValidateDocumentPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "relative path", path: "examples/page.html", wantErr: false},
		{name: "absolute path", path: "/tmp/page.html", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "too long", path: strings.Repeat("a", 501), wantErr: true},
		{name: "null byte", path: "page\x00.html", wantErr: true},
		{name: "control character", path: "page\n.html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
