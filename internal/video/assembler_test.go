package video

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mdcast/internal/timeline"
)

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"section_1.png", "section_3.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	spans := []timeline.SectionSpan{
		{Title: "一", StartMS: 0, EndMS: 2000},
		{Title: "二", StartMS: 2000, EndMS: 3500}, // 缺图，应跳过
		{Title: "三", StartMS: 3500, EndMS: 5000},
	}

	a := NewAssembler("", nil)
	listFile, err := a.writeConcatList(spans, dir)
	if err != nil {
		t.Fatalf("writeConcatList failed: %v", err)
	}
	defer os.Remove(listFile)

	data, err := os.ReadFile(listFile)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "section_1.png'\nduration 2.000") {
		t.Fatalf("section 1 entry wrong:\n%s", content)
	}
	if strings.Contains(content, "section_2.png") {
		t.Fatalf("missing image should be skipped:\n%s", content)
	}
	if !strings.Contains(content, "section_3.png'\nduration 1.500") {
		t.Fatalf("section 3 entry wrong:\n%s", content)
	}

	// 末行重复最后一张图，不带 duration
	lines := strings.Split(strings.TrimSpace(content), "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "section_3.png") || strings.Contains(last, "duration") {
		t.Fatalf("last line must repeat final image without duration: %q", last)
	}
}

func TestWriteConcatListNoImages(t *testing.T) {
	a := NewAssembler("", nil)
	if _, err := a.writeConcatList([]timeline.SectionSpan{{Title: "一", EndMS: 1000}}, t.TempDir()); err == nil {
		t.Fatalf("expected error when no images exist")
	}
}
