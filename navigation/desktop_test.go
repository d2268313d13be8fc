package navigation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"planetsystem/config"
)

type opened struct {
	urls  []string
	files []string
}

func testDesktop(t *testing.T, cfg config.NavigationSettings) (*Desktop, *opened) {
	t.Helper()
	d := NewDesktop(cfg)
	o := &opened{}
	d.openURL = func(u string) error { o.urls = append(o.urls, u); return nil }
	d.openFile = func(f string) error { o.files = append(o.files, f); return nil }
	return d, o
}

func TestOpenDocumentLocalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Resume.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, o := testDesktop(t, config.NavigationSettings{DocsDir: dir})

	if err := d.OpenDocument("Resume.pdf"); err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	if len(o.files) != 1 || filepath.Base(o.files[0]) != "Resume.pdf" || !filepath.IsAbs(o.files[0]) {
		t.Errorf("opened files %v", o.files)
	}
}

func TestOpenDocumentMissingFile(t *testing.T) {
	d, o := testDesktop(t, config.NavigationSettings{DocsDir: t.TempDir()})
	err := d.OpenDocument("Missing.pdf")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
	if len(o.files)+len(o.urls) != 0 {
		t.Errorf("opened something: %+v", o)
	}
}

func TestOpenDocumentURLs(t *testing.T) {
	tests := []struct {
		base, target, want string
	}{
		{"", "https://example.com/cv.pdf", "https://example.com/cv.pdf"},
		{"https://example.com/site/", "Resume.pdf", "https://example.com/site/Resume.pdf"},
		{"https://example.com/site/index.html", "docs/Resume.pdf", "https://example.com/site/docs/Resume.pdf"},
	}
	for _, tc := range tests {
		d, o := testDesktop(t, config.NavigationSettings{BaseURL: tc.base})
		if err := d.OpenDocument(tc.target); err != nil {
			t.Fatalf("OpenDocument(%q): %v", tc.target, err)
		}
		if len(o.urls) != 1 || o.urls[0] != tc.want {
			t.Errorf("OpenDocument(%q) with base %q opened %v, want %s", tc.target, tc.base, o.urls, tc.want)
		}
	}
}

func TestShowSectionNotifies(t *testing.T) {
	d, _ := testDesktop(t, config.NavigationSettings{})
	var got []string
	d.OnSection(func(s string) { got = append(got, s) })

	d.ShowSection("#about")
	d.ShowSection("#about")
	d.ShowSection("#projects")

	if d.Section() != "#projects" {
		t.Errorf("Section() = %q", d.Section())
	}
	if len(got) != 3 || got[0] != "#about" || got[2] != "#projects" {
		t.Errorf("listener saw %v", got)
	}
}

func TestSectionTitle(t *testing.T) {
	tests := []struct{ base, section, want string }{
		{"Planet System", "#about", "Planet System · about"},
		{"Planet System", "", "Planet System"},
		{"Planet System", "#", "Planet System"},
		{"Planet System", "projects", "Planet System · projects"},
	}
	for _, tc := range tests {
		if got := SectionTitle(tc.base, tc.section); got != tc.want {
			t.Errorf("SectionTitle(%q, %q) = %q, want %q", tc.base, tc.section, got, tc.want)
		}
	}
}
