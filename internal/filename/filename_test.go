package filename

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		originalName string
		folderName   string
		wantCleaned  string
		wantOriginal string
		wantFolder   string
		wantErr      bool
	}{
		{
			name:         "plain filename keeps supplied folder",
			originalName: "report.pdf",
			folderName:   "Taxes",
			wantCleaned:  "report.pdf",
			wantOriginal: "report.pdf",
			wantFolder:   "Taxes",
		},
		{
			name:         "plain filename with no folder",
			originalName: "report.pdf",
			wantCleaned:  "report.pdf",
			wantOriginal: "report.pdf",
			wantFolder:   "",
		},
		{
			name:         "prefix overrides supplied folder",
			originalName: "Insurance/policy.pdf",
			folderName:   "Taxes",
			wantCleaned:  "policy.pdf",
			wantOriginal: "policy.pdf",
			wantFolder:   "Insurance",
		},
		{
			name:         "only first separator splits",
			originalName: "a/b/c.txt",
			wantCleaned:  "b/c.txt",
			wantOriginal: "b/c.txt",
			wantFolder:   "a",
		},
		{
			name:         "empty name is rejected",
			originalName: "",
			wantErr:      true,
		},
		{
			name:         "whitespace name is rejected",
			originalName: "   ",
			wantErr:      true,
		},
		{
			name:         "nothing after prefix is rejected",
			originalName: "folder/",
			wantErr:      true,
		},
		{
			name:         "empty prefix is kept as folder",
			originalName: "/notes.txt",
			wantCleaned:  "notes.txt",
			wantOriginal: "notes.txt",
			wantFolder:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, meta, err := Normalize(tt.originalName, tt.folderName)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q, %q) expected error, got %q", tt.originalName, tt.folderName, cleaned)
				}
				if !errors.Is(err, ErrInvalidName) {
					t.Fatalf("error %v is not ErrInvalidName", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q, %q) unexpected error: %v", tt.originalName, tt.folderName, err)
			}
			if cleaned != tt.wantCleaned {
				t.Errorf("cleaned = %q, want %q", cleaned, tt.wantCleaned)
			}
			if meta.OriginalFilename != tt.wantOriginal {
				t.Errorf("OriginalFilename = %q, want %q", meta.OriginalFilename, tt.wantOriginal)
			}
			if meta.FolderName != tt.wantFolder {
				t.Errorf("FolderName = %q, want %q", meta.FolderName, tt.wantFolder)
			}
		})
	}
}

func TestUniqueName(t *testing.T) {
	a := UniqueName("report.pdf")
	b := UniqueName("report.pdf")

	if a == b {
		t.Fatalf("two calls produced the same name %q", a)
	}
	for _, name := range []string{a, b} {
		if !strings.HasPrefix(name, "report_") {
			t.Errorf("name %q does not keep the base prefix", name)
		}
		if !strings.HasSuffix(name, ".pdf") {
			t.Errorf("name %q does not keep the extension", name)
		}
		if strings.Contains(name, "-") {
			t.Errorf("name %q contains hyphens from the raw token", name)
		}
	}
}

func TestUniqueNameWithoutExtension(t *testing.T) {
	name := UniqueName("README")
	if !strings.HasPrefix(name, "README_") {
		t.Errorf("name %q does not keep the base prefix", name)
	}
	if strings.Contains(name, ".") {
		t.Errorf("name %q grew an extension from nowhere", name)
	}
}

func TestParts(t *testing.T) {
	tests := []struct {
		in       string
		wantBase string
		wantExt  string
	}{
		{"report.PDF", "report", ".pdf"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"README", "README", ""},
		{".gitignore", "", ".gitignore"},
	}
	for _, tt := range tests {
		base, ext := Parts(tt.in)
		if base != tt.wantBase || ext != tt.wantExt {
			t.Errorf("Parts(%q) = (%q, %q), want (%q, %q)", tt.in, base, ext, tt.wantBase, tt.wantExt)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`inv<oi>ce:2024.pdf`, "inv_oi_ce_2024.pdf"},
		{"  spaced.txt  ", "spaced.txt"},
		{"..dotted..", "dotted"},
		{"normal.pdf", "normal.pdf"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
