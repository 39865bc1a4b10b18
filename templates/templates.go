// Package templates holds the plush layouts, partials and pages.
package templates

import (
	"embed"
	"html/template"
	"io/fs"
	"sync"

	"github.com/gobuffalo/plush"
	"github.com/pkg/errors"
)

//go:embed layouts/*.plush.html partials/*.plush.html pages/*.plush.html
var embedded embed.FS

const ext = ".plush.html"

// Set parses templates on first use and keeps them.
type Set struct {
	fsys fs.FS

	mu     sync.RWMutex
	parsed map[string]*plush.Template
}

// New returns the embedded template set.
func New() *Set {
	return NewFS(embedded)
}

// NewFS reads templates from fsys, e.g. os.DirFS("templates") during
// development.
func NewFS(fsys fs.FS) *Set {
	return &Set{fsys: fsys, parsed: make(map[string]*plush.Template)}
}

// Exec renders the named template, e.g. "pages/blog_list".
func (s *Set) Exec(name string, ctx *plush.Context) (template.HTML, error) {
	t, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	out, err := t.Exec(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	return template.HTML(out), nil
}

func (s *Set) lookup(name string) (*plush.Template, error) {
	s.mu.RLock()
	t, ok := s.parsed[name]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	content, err := fs.ReadFile(s.fsys, name+ext)
	if err != nil {
		return nil, errors.Wrapf(err, "read template %s", name)
	}
	t, err = plush.Parse(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "parse template %s", name)
	}

	s.mu.Lock()
	s.parsed[name] = t
	s.mu.Unlock()
	return t, nil
}
