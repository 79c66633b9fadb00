package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSONLoader loads configuration from JSON files.
type JSONLoader struct {
	fs   FileSystem
	path string
}

// NewJSONLoader creates a new JSON loader for the given path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewJSONLoaderWithFS creates a JSON loader with a custom file system.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads configuration from the configured path.
func (l *JSONLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads configuration from a specific path.
func (l *JSONLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return l.parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func (l *JSONLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return l.parse("<reader>", data)
}

// parse parses JSON data into a map without a decode/re-encode round trip
// for the common single-key lookups gjson is good at; the full map is still
// produced via gjson.Parse so callers get the same map[string]any shape the
// registry expects regardless of source format.
func (l *JSONLoader) parse(source string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{
			Path:    source,
			Message: "invalid JSON",
		}
	}

	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return nil, &ParseError{
			Path:    source,
			Message: "root value must be a JSON object",
		}
	}

	return result.Value().(map[string]any), nil
}

// SetPath applies a single dotted-path value change to a JSON document and
// returns the rewritten bytes, pretty-printed to match the file's existing
// indentation conventions. Used by the `:set` command path to edit a
// setting in place without rewriting the whole config file.
func SetPath(jsonDoc []byte, path string, value any) ([]byte, error) {
	updated, err := sjson.SetBytes(jsonDoc, path, value)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", path, err)
	}
	return pretty.Pretty(updated), nil
}

// DeletePath removes a dotted-path key from a JSON document.
func DeletePath(jsonDoc []byte, path string) ([]byte, error) {
	updated, err := sjson.DeleteBytes(jsonDoc, path)
	if err != nil {
		return nil, fmt.Errorf("deleting %s: %w", path, err)
	}
	return pretty.Pretty(updated), nil
}

// GetPath reads a single dotted-path value out of a JSON document without
// decoding the whole thing, for quick lookups against large LSP
// initializationOptions/settings payloads.
func GetPath(jsonDoc []byte, path string) (gjson.Result, error) {
	if !gjson.ValidBytes(jsonDoc) {
		return gjson.Result{}, fmt.Errorf("invalid JSON")
	}
	return gjson.GetBytes(jsonDoc, path), nil
}
