// Package kvfile persists named records in a single YAML document.
//
// Each record is stored under a top-level key:
//
//	s3-settings:
//	  endpoint: https://s3.example.com
//	  bucket: photos
//	app-settings:
//	  enableAutoRefresh: true
//
// Writes go to a temporary file that is renamed over the original, so a
// crash never leaves a half-written document behind.
package kvfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/koustreak/BucketDesk/internal/errs"
	"go.yaml.in/yaml/v3"
)

// File is a YAML-backed record store. It is safe for concurrent use.
type File struct {
	path string
	mu   sync.Mutex
}

// Open returns a File for path. The file and its directory are created on
// the first Save.
func Open(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load decodes the record called name into v. It reports false, leaving v
// untouched, when the file or the record does not exist.
func (f *File) Load(name string, v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return false, err
	}

	node, ok := doc[name]
	if !ok {
		return false, nil
	}
	if err := node.Decode(v); err != nil {
		return false, errs.Wrap(errs.ErrKindInvalidInput, "failed to decode record "+name, err)
	}
	return true, nil
}

// Save encodes v as the record called name, keeping every other record.
func (f *File) Save(name string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to encode record "+name, err)
	}
	doc[name] = node

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to encode settings file", err)
	}
	if err := enc.Close(); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to encode settings file", err)
	}

	return f.write(buf.Bytes())
}

func (f *File) read() (map[string]yaml.Node, error) {
	doc := map[string]yaml.Node{}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindUnknown, "failed to read settings file", err)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "settings file is not valid YAML", err)
	}
	if doc == nil {
		doc = map[string]yaml.Node{}
	}
	return doc, nil
}

func (f *File) write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to create settings directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrKindUnknown, "failed to write settings file", err)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to write settings file", err)
	}

	// Credentials live in this file.
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to set settings file mode", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "failed to replace settings file", err)
	}
	return nil
}
