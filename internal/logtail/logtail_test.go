package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParseLine(t *testing.T) {
	line := `time=2026-03-10T15:30:00.123-06:00 level=WARN msg="api returned error status" path=/api/v1/flights/42 status=404 request_id=7f1c`
	e := ParseLine(line)

	if e.Level != "WARN" {
		t.Fatalf("Level = %q, want WARN", e.Level)
	}
	if e.Message != "api returned error status" {
		t.Fatalf("Message = %q", e.Message)
	}
	if e.Time.IsZero() || e.Time.Minute() != 30 {
		t.Fatalf("Time = %v", e.Time)
	}
	want := []Attr{
		{Key: "path", Value: "/api/v1/flights/42"},
		{Key: "status", Value: "404"},
		{Key: "request_id", Value: "7f1c"},
	}
	if !reflect.DeepEqual(e.Attrs, want) {
		t.Fatalf("Attrs = %#v, want %#v", e.Attrs, want)
	}
}

func TestParseLine_QuotedEscapes(t *testing.T) {
	e := ParseLine(`level=ERROR msg="search failed" error="execute request: dial \"tcp\" refused"`)
	if len(e.Attrs) != 1 || e.Attrs[0].Value != `execute request: dial "tcp" refused` {
		t.Fatalf("Attrs = %#v", e.Attrs)
	}
}

func TestParseLine_FreeText(t *testing.T) {
	e := ParseLine("panic: something broke")
	if e.Message != "panic: something broke" || e.Level != "" || len(e.Attrs) != 0 {
		t.Fatalf("entry = %#v", e)
	}
}

func TestTail_SkipsBlankLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	body := "level=INFO msg=one\n\nlevel=DEBUG msg=two\nlevel=ERROR msg=three\n"
	if err := os.WriteFile(logPath, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entries, err := Tail(logPath, 3)
	if err != nil {
		t.Fatalf("Tail error = %v", err)
	}
	if len(entries) != 2 || entries[0].Message != "two" || entries[1].Message != "three" {
		t.Fatalf("entries = %#v", entries)
	}
}

func TestEntry_AtLeast(t *testing.T) {
	tests := []struct {
		level string
		min   string
		want  bool
	}{
		{"DEBUG", "INFO", false},
		{"INFO", "INFO", true},
		{"WARN", "INFO", true},
		{"ERROR", "WARN", true},
		{"INFO", "ERROR", false},
		{"", "ERROR", true},
	}
	for _, tt := range tests {
		if got := (Entry{Level: tt.level}).AtLeast(tt.min); got != tt.want {
			t.Errorf("Entry{%s}.AtLeast(%s) = %v, want %v", tt.level, tt.min, got, tt.want)
		}
	}
}
