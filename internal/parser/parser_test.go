package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTextParser_ParagraphGroupsBecomePages(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	pages, err := p.Pages(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	if len(pages) != len(want) {
		t.Fatalf("expected %d pages, got %d", len(want), len(pages))
	}
	for i, w := range want {
		if pages[i] != w {
			t.Errorf("page[%d]: expected %q, got %q", i, w, pages[i])
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	pages, err := p.Pages(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected 0 pages for empty input, got %d", len(pages))
	}
}

func TestMarkdownParser_HeadingsStartPages(t *testing.T) {
	input := "intro text before any heading\n\n# First\n\nbody one\n\n## Second\n\nbody two\n"
	p := &MarkdownParser{}
	pages, err := p.Pages(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d: %q", len(pages), pages)
	}
	if pages[0] != "intro text before any heading" {
		t.Errorf("unexpected preamble page: %q", pages[0])
	}
	if !strings.HasPrefix(pages[1], "First") || !strings.Contains(pages[1], "body one") {
		t.Errorf("unexpected first section: %q", pages[1])
	}
	if !strings.HasPrefix(pages[2], "Second") || !strings.Contains(pages[2], "body two") {
		t.Errorf("unexpected second section: %q", pages[2])
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	p := &MarkdownParser{}
	pages, err := p.Pages(strings.NewReader("just a paragraph\n\nand another\n"), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
}

func TestHTMLParser_HeadingsStartPages(t *testing.T) {
	input := `<html><head><title>T</title></head><body>
		<h1>Alpha</h1><p>alpha body</p>
		<h2>Beta</h2><p>beta body</p>
		<script>ignore()</script>
	</body></html>`
	p := &HTMLParser{}
	pages, err := p.Pages(strings.NewReader(input), "doc.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %q", len(pages), pages)
	}
	if !strings.Contains(pages[0], "alpha body") {
		t.Errorf("expected first page to contain body text, got %q", pages[0])
	}
	if strings.Contains(pages[0]+pages[1], "ignore()") {
		t.Error("script content leaked into page text")
	}
}

func TestCSVParser_GroupsRows(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("name,age\n")
	for i := 0; i < 25; i++ {
		sb.WriteString("row,1\n")
	}
	p := &CSVParser{}
	pages, err := p.Pages(strings.NewReader(sb.String()), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages for 25 rows, got %d", len(pages))
	}
	if !strings.HasPrefix(pages[0], "Headers: name, age") {
		t.Errorf("expected header line, got %q", pages[0][:40])
	}
}

func TestForFile_SupportedAndUnsupported(t *testing.T) {
	for _, name := range []string{"a.txt", "b.md", "c.markdown", "d.csv", "e.html", "f.htm", "g.pdf", "h.docx"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}
	if _, err := ForFile("x.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestExtractPages_NotFound(t *testing.T) {
	_, err := ExtractPages(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractPages_UnreadableFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.xlsx")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ExtractPages(path)
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
}

func TestExtractPages_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("one\n\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pages, err := ExtractPages(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 || pages[0] != "one" || pages[1] != "two" {
		t.Errorf("unexpected pages: %q", pages)
	}
}
