// Package taskfile persists a todo.Store to a JSON or YAML file.
package taskfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasklist/internal/logging"
	"github.com/nibzard/tasklist/internal/todo"
)

// SchemaVersion is the version written to new files.
const SchemaVersion = 1

// DefaultPath is the tasks file used when nothing else is configured.
const DefaultPath = "tasks.json"

// Format selects the on-disk encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. An empty string yields FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("invalid format %q, must be one of: json, yaml", s)
}

// FormatFor returns the configured format, or the one implied by the
// file extension when configured is FormatAuto.
func FormatFor(path string, configured Format) Format {
	if configured != FormatAuto {
		return configured
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// document is the persisted layout.
type document struct {
	SchemaVersion int         `json:"schema_version" yaml:"schema_version"`
	NextID        int         `json:"next_id" yaml:"next_id"`
	Tasks         []todo.Task `json:"tasks" yaml:"tasks"`
}

// File is a tasks file on disk.
type File struct {
	Path   string
	Format Format
	Logger *log.Logger
}

// New returns a File for path. A nil logger discards output.
func New(path string, format Format, logger *log.Logger) *File {
	if logger == nil {
		logger = logging.Discard()
	}
	return &File{Path: path, Format: format, Logger: logger}
}

func (f *File) logger() *log.Logger {
	if f.Logger == nil {
		f.Logger = logging.Discard()
	}
	return f.Logger
}

func (f *File) format() Format {
	return FormatFor(f.Path, f.Format)
}

// Load reads the tasks file into a new store. A missing file yields an
// empty store. Malformed content fails with ErrCorruptState.
func (f *File) Load() (*todo.Store, error) {
	logger := f.logger()
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no saved tasks found, starting with an empty list", "path", f.Path)
			return todo.NewStore(), nil
		}
		return nil, fmt.Errorf("%w: read tasks file: %w", ErrIO, err)
	}

	res, err := f.decode(data)
	if err != nil {
		return nil, err
	}
	for _, w := range res.warnings {
		logger.Warn(w, "path", f.Path)
	}
	logger.Debug("loaded tasks", "path", f.Path, "count", res.store.Len(), "next_id", res.store.NextID())
	return res.store, nil
}

// Save writes the store to the tasks file, replacing its contents. The
// previous file is left intact if the write fails.
func (f *File) Save(s *todo.Store) error {
	doc := document{
		SchemaVersion: SchemaVersion,
		NextID:        s.NextID(),
		Tasks:         s.Tasks(),
	}

	data, err := encode(doc, f.format())
	if err != nil {
		return fmt.Errorf("%w: encode tasks file: %w", ErrIO, err)
	}
	if err := writeFileAtomic(f.Path, data); err != nil {
		return fmt.Errorf("%w: write tasks file: %w", ErrIO, err)
	}

	f.logger().Debug("saved tasks", "path", f.Path, "count", len(doc.Tasks), "format", f.format())
	return nil
}

func encode(doc document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// writeFileAtomic replaces path with data through a temp file and rename.
// An existing file keeps its permissions; new files get 0644.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
