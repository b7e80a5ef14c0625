// Package rules loads per-team rules documents that parameterize the
// planning prompts. Each document is a YAML mapping stored as
// <dir>/<id>.yaml and is read fresh on every lookup.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"plannerd/internal/logging"

	"gopkg.in/yaml.v3"
)

// Recognized document keys.
const (
	KeyRFCTemplate = "rfc_template"
	KeyCodeStyle   = "code_style"
	KeyTaskRules   = "task_rules"
)

// Ext is the file extension of rules documents.
const Ext = ".yaml"

// Document is a decoded rules document.
type Document map[string]any

// String returns the value stored under key, or fallback when the key is
// absent. A key present with a null value yields "". Non-string scalars are
// formatted with fmt.
func (d Document) String(key, fallback string) string {
	v, ok := d[key]
	if !ok {
		return fallback
	}
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Result is the outcome of a lookup: either a found document or a miss.
type Result struct {
	ID    string
	doc   Document
	found bool
}

// Found wraps a loaded document.
func Found(id string, doc Document) Result {
	if doc == nil {
		doc = Document{}
	}
	return Result{ID: id, doc: doc, found: true}
}

// NotFound records that no document exists for id.
func NotFound(id string) Result {
	return Result{ID: id}
}

// IsFound reports whether the document exists.
func (r Result) IsFound() bool { return r.found }

// Document returns the loaded document, or nil for a miss.
func (r Result) Document() Document { return r.doc }

// Loader reads rules documents from a directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the rules directory.
func (l *Loader) Dir() string { return l.dir }

// Path returns the file backing id. The id is not sanitized.
func (l *Loader) Path(id string) string {
	return filepath.Join(l.dir, id+Ext)
}

// Load reads and decodes the document for id. A missing file is reported as
// a NotFound result; read and parse failures are returned as errors.
func (l *Loader) Load(id string) (Result, error) {
	path := l.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.RulesDebug("rules %q not found at %s", id, path)
			return NotFound(id), nil
		}
		return Result{}, fmt.Errorf("failed to read rules %q: %w", id, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Result{}, fmt.Errorf("failed to parse rules %q: %w", id, err)
	}

	logging.RulesDebug("loaded rules %q (%d keys)", id, len(doc))
	return Found(id, doc), nil
}

// Check loads id and reports a miss as an error.
func (l *Loader) Check(id string) error {
	res, err := l.Load(id)
	if err != nil {
		return err
	}
	if !res.IsFound() {
		return fmt.Errorf("rules %q not found at %s", id, l.Path(id))
	}
	return nil
}

// List returns the sorted ids of all documents in the directory. A missing
// directory yields an empty list.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list rules in %s: %w", l.dir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), Ext))
	}
	sort.Strings(ids)
	return ids, nil
}
