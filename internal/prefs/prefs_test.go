package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != DefaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, DefaultTheme)
	}
	if len(p.RecentSearches) != 0 {
		t.Fatalf("RecentSearches = %v, want empty", p.RecentSearches)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "farefinder")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	body := "theme = \"Slate\"\nrecent_searches = [\"a=1\", \"  \", \"a=1\", \"b=2\"]\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if want := []string{"a=1", "b=2"}; !reflect.DeepEqual(p.RecentSearches, want) {
		t.Fatalf("RecentSearches = %v, want %v", p.RecentSearches, want)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	p := Prefs{Theme: "Kanagawa"}
	p.RememberSearch("departureAirportKeyword=MEX")
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Kanagawa")
	}
	if len(loaded.RecentSearches) != 1 || loaded.RecentSearches[0] != "departureAirportKeyword=MEX" {
		t.Fatalf("RecentSearches = %v", loaded.RecentSearches)
	}
}

func TestLoad_BadContentFallsBackToDefault(t *testing.T) {
	tests := map[string]string{
		"empty theme":  "theme = \"\"\n",
		"invalid toml": "not valid toml {{{\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			p, err := Load(prefsFile)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if p.Theme != DefaultTheme {
				t.Fatalf("Theme = %q, want %q", p.Theme, DefaultTheme)
			}
		})
	}
}

func TestRememberSearch_MovesToFrontAndCaps(t *testing.T) {
	var p Prefs
	for i := 0; i < MaxRecentSearches+3; i++ {
		p.RememberSearch(fmt.Sprintf("q=%d", i))
	}
	p.RememberSearch("q=5")
	p.RememberSearch("   ")

	if len(p.RecentSearches) != MaxRecentSearches {
		t.Fatalf("len = %d, want %d", len(p.RecentSearches), MaxRecentSearches)
	}
	if p.RecentSearches[0] != "q=5" {
		t.Fatalf("first = %q, want q=5", p.RecentSearches[0])
	}
	if p.RecentSearches[1] != fmt.Sprintf("q=%d", MaxRecentSearches+2) {
		t.Fatalf("second = %q", p.RecentSearches[1])
	}
	count := 0
	for _, q := range p.RecentSearches {
		if q == "q=5" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("q=5 appears %d times, want 1", count)
	}
}
