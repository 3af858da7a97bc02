package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/knowledge-engine/suggester/internal/search"
)

// ErrUnsupportedFormat is returned for catalog files that are neither JSON nor YAML
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// CatalogSource supplies catalog records, typically once at startup
type CatalogSource interface {
	Load(ctx context.Context) ([]search.Record, error)
}

// Format identifies a catalog encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DecodeRecords reads a list of {name, description} records and validates each one
func DecodeRecords(r io.Reader, format Format) ([]search.Record, error) {
	var raw []map[string]any

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode json catalog: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return search.RecordsFromMaps(raw)
}

// EncodeRecords writes records in the given format
func EncodeRecords(records []search.Record, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(records, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FileSource implements CatalogSource over a JSON or YAML file on disk
type FileSource struct {
	path string
	mu   sync.RWMutex
}

// NewFileSource creates a file-backed catalog source
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: path,
	}
}

// Path returns the catalog file location
func (fs *FileSource) Path() string {
	return fs.path
}

// Load reads and validates every record in the file
func (fs *FileSource) Load(ctx context.Context) ([]search.Record, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	format, err := FormatForPath(fs.path)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	records, err := DecodeRecords(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fs.path, err)
	}
	return records, nil
}

// Save writes the records to the file, replacing its contents
func (fs *FileSource) Save(records []search.Record) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	format, err := FormatForPath(fs.path)
	if err != nil {
		return err
	}

	data, err := EncodeRecords(records, format)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
