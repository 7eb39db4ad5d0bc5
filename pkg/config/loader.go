package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// Format is the syntax of a configuration document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor detects the format from the file extension: .yaml and .yml are
// YAML, everything else JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Load reads a configuration file, expands its include globs relative to the
// file's directory and validates the result.
func Load(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	for _, m := range cfg.Mocks {
		if m != nil {
			m.BaseDir, m.Source = baseDir, path
		}
	}
	for i, pattern := range cfg.Include {
		mocks, err := loadInclude(pattern, baseDir)
		if err != nil {
			return nil, fmt.Errorf("include[%d] (%s): %w", i, pattern, err)
		}
		cfg.Mocks = append(cfg.Mocks, mocks...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document. Includes are not
// expanded and template files resolve against the working directory.
func Parse(data []byte, format Format) (*Config, error) {
	cfg, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode normalizes the document to JSON, checks it against the schema and
// decodes it into a Config.
func decode(data []byte, format Format) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	return decodeJSON(doc)
}

func decodeJSON(doc []byte) (*Config, error) {
	var generic any
	if err := json.Unmarshal(doc, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if errs := validateSchema(generic); len(errs) > 0 {
		return nil, errs
	}

	var cfg Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}

// toJSON returns the document as JSON. YAML is decoded and re-encoded so both
// formats share one schema and one set of struct tags.
func toJSON(data []byte, format Format) ([]byte, error) {
	if format == FormatJSON {
		if !json.Valid(data) {
			return nil, ErrInvalidJSON
		}
		return data, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return out, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return data, nil
}

// loadInclude loads the mocks of every file matching pattern, in path order.
// Supports ** for recursive directory matching. No match is not an error.
func loadInclude(pattern, baseDir string) ([]*Mock, error) {
	resolved := pattern
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, pattern)
	}
	matches, err := doublestar.FilepathGlob(resolved, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)

	var mocks []*Mock
	for _, match := range matches {
		loaded, err := loadMockFile(match)
		if err != nil {
			return nil, err
		}
		mocks = append(mocks, loaded...)
	}
	return mocks, nil
}

// loadMockFile reads an included file. It holds either a list of mocks or a
// document with only a mocks key.
func loadMockFile(path string) ([]*Mock, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := toJSON(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		doc = append(append([]byte(`{"mocks":`), trimmed...), '}')
	}
	cfg, err := decodeJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Version != "" || cfg.Server.Listen != "" || len(cfg.Include) > 0 {
		return nil, fmt.Errorf("%s: included files may only define mocks", path)
	}

	dir := filepath.Dir(path)
	for _, m := range cfg.Mocks {
		if m != nil {
			m.BaseDir, m.Source = dir, path
		}
	}
	return cfg.Mocks, nil
}
