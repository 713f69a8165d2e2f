package config

import (
	"os"
	"path/filepath"
	"testing"

	"krisha_importer/models"
)

func TestLoadDictionaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionaries.yaml")
	content := `dictionaries:
  flat_building:
    - code: brick
      id: 1
      name: кирпичный
    - code: panel
      id: 2
      name: панельный
  flat_security:
    - code: intercom
      id: 3
      name: домофон
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	dicts, err := LoadDictionaries(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	building := dicts[models.DictBuilding]
	if len(building) != 2 {
		t.Fatalf("expected 2 building entries, got %d", len(building))
	}
	if building[0].Code != "brick" || building[0].FormID != 1 || building[0].Name != "кирпичный" {
		t.Fatalf("unexpected first entry %+v", building[0])
	}
	if len(dicts[models.DictSecurity]) != 1 {
		t.Fatalf("expected 1 security entry, got %d", len(dicts[models.DictSecurity]))
	}
}

func TestLoadDictionaries_UnknownName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionaries.yaml")
	content := `dictionaries:
  flat_typo:
    - code: x
      id: 1
      name: y
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := LoadDictionaries(path); err == nil {
		t.Fatal("expected error for unknown dictionary name")
	}
}

func TestSeedFileMatchesKnownDictionaries(t *testing.T) {
	dicts, err := LoadDictionaries("dictionaries.yaml")
	if err != nil {
		t.Fatalf("failed to load shipped seed file: %v", err)
	}
	if len(dicts) != len(models.Dictionaries) {
		t.Fatalf("expected %d dictionaries in seed file, got %d", len(models.Dictionaries), len(dicts))
	}
	for _, dict := range models.Dictionaries {
		if len(dicts[dict]) == 0 {
			t.Fatalf("seed file has no entries for %s", dict)
		}
	}
}
