package loader

import (
	"strings"
	"testing"
)

func TestJSONLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.json", `{
		"editor": {
			"tabSize": 4,
			"insertSpaces": true
		}
	}`)

	l := NewJSONLoaderWithFS(memfs, "/config.json")
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	editor, ok := config["editor"].(map[string]any)
	if !ok {
		t.Fatalf("expected editor section to be a map, got %T", config["editor"])
	}
	if editor["tabSize"] != float64(4) {
		t.Errorf("tabSize = %v, want 4", editor["tabSize"])
	}
}

func TestJSONLoader_MissingFileNotError(t *testing.T) {
	memfs := NewMemFS()
	l := NewJSONLoaderWithFS(memfs, "/missing.json")

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if config != nil {
		t.Errorf("config = %v, want nil", config)
	}
}

func TestJSONLoader_InvalidJSON(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.json", `{not json`)
	l := NewJSONLoaderWithFS(memfs, "/bad.json")

	if _, err := l.Load(); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestJSONLoader_NonObjectRoot(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/array.json", `[1, 2, 3]`)
	l := NewJSONLoaderWithFS(memfs, "/array.json")

	if _, err := l.Load(); err == nil {
		t.Fatal("expected error for non-object root")
	}
}

func TestSetPathUpdatesValue(t *testing.T) {
	doc := []byte(`{"editor":{"tabSize":4}}`)

	updated, err := SetPath(doc, "editor.tabSize", 2)
	if err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	if !strings.Contains(string(updated), `"tabSize": 2`) {
		t.Errorf("expected updated tabSize, got %s", updated)
	}
}

func TestDeletePathRemovesKey(t *testing.T) {
	doc := []byte(`{"editor":{"tabSize":4,"wordWrap":"on"}}`)

	updated, err := DeletePath(doc, "editor.wordWrap")
	if err != nil {
		t.Fatalf("DeletePath() error = %v", err)
	}
	if strings.Contains(string(updated), "wordWrap") {
		t.Errorf("expected wordWrap removed, got %s", updated)
	}
}

func TestGetPathReadsValue(t *testing.T) {
	doc := []byte(`{"editor":{"tabSize":4}}`)

	result, err := GetPath(doc, "editor.tabSize")
	if err != nil {
		t.Fatalf("GetPath() error = %v", err)
	}
	if result.Int() != 4 {
		t.Errorf("GetPath() = %v, want 4", result.Int())
	}
}
