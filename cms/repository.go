package cms

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ZacxDev/nolan-sites/hosts"
	"github.com/ZacxDev/nolan-sites/i18n"
)

// Collection is a directory of slug-named documents per locale.
type Collection string

const (
	Pages    Collection = "pages"
	Blog     Collection = "blog"
	Services Collection = "services"
)

const (
	businessCardDir = "main/business-card"
	taxesHomeDir    = "taxes/home"
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Repository reads documents laid out as
// <site>/<collection>/<locale>/<slug>.md under its filesystem root.
type Repository struct {
	fsys    fs.FS
	locales i18n.Set
}

// NewRepository serves content from the directory root.
func NewRepository(root string, locales i18n.Set) *Repository {
	return NewRepositoryFS(os.DirFS(root), locales)
}

func NewRepositoryFS(fsys fs.FS, locales i18n.Set) *Repository {
	return &Repository{fsys: fsys, locales: locales}
}

// Path is the slash-separated location of a document, or of the collection
// directory when slug is empty.
func Path(site hosts.Site, collection Collection, locale i18n.Locale, slug string) string {
	dir := path.Join(string(site), string(collection), string(locale))
	if slug == "" {
		return dir
	}
	return path.Join(dir, slug+".md")
}

// ValidSlug reports whether s can name a document file.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s) && !strings.Contains(s, "..")
}

func (r *Repository) readFile(ctx context.Context, name string) ([]byte, bool, error) {
	read := func() fileResult {
		data, err := fs.ReadFile(r.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			return fileResult{}
		}
		if err != nil {
			return fileResult{err: errors.Wrapf(err, "read %s", name)}
		}
		return fileResult{data: data, exists: true}
	}

	var res fileResult
	if m := memoFrom(ctx); m != nil {
		res = m.load(name, read)
	} else {
		res = read()
	}
	return res.data, res.exists, res.err
}

func parseDoc[T any](slug string, locale i18n.Locale, name string, raw []byte) (*Doc[T], error) {
	doc := &Doc[T]{Slug: slug, Locale: locale}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &doc.Frontmatter)
	if err != nil {
		return nil, errors.Wrapf(err, "parse front matter of %s", name)
	}
	doc.Body = string(body)
	return doc, nil
}

func load[T any](ctx context.Context, r *Repository, slug string, locale i18n.Locale, name string) (*Doc[T], error) {
	raw, ok, err := r.readFile(ctx, name)
	if err != nil || !ok {
		return nil, err
	}
	return parseDoc[T](slug, locale, name, raw)
}

// localized resolves a document in locale, then in the default locale.
// A missing translation is replaced by the default document in whole. A
// present translation keeps its values but borrows any empty media field
// from the default document.
func localized[T any](ctx context.Context, r *Repository, slug string, locale i18n.Locale, pathFor func(i18n.Locale) string) (*Doc[T], error) {
	def := r.locales.Default()

	doc, err := load[T](ctx, r, slug, locale, pathFor(locale))
	if err != nil {
		return nil, err
	}
	if locale == def {
		return doc, nil
	}
	if doc == nil {
		return load[T](ctx, r, slug, def, pathFor(def))
	}

	media, ok := any(&doc.Frontmatter).(MediaFielder)
	if !ok {
		return doc, nil
	}
	fields := media.MediaFields()
	if !anyEmpty(fields) {
		return doc, nil
	}

	fallback, err := load[T](ctx, r, slug, def, pathFor(def))
	if err != nil || fallback == nil {
		return doc, err
	}
	defaults := any(&fallback.Frontmatter).(MediaFielder).MediaFields()
	for i, f := range fields {
		if *f == "" {
			*f = *defaults[i]
		}
	}
	return doc, nil
}

func anyEmpty(fields []*string) bool {
	for _, f := range fields {
		if *f == "" {
			return true
		}
	}
	return false
}

// GetBySlug returns the document or nil when neither the locale nor the
// default locale has it. Absence is not an error.
func GetBySlug[T any](ctx context.Context, r *Repository, site hosts.Site, collection Collection, locale i18n.Locale, slug string) (*Doc[T], error) {
	if !ValidSlug(slug) || !r.locales.Contains(string(locale)) {
		return nil, nil
	}
	return localized[T](ctx, r, slug, locale, func(l i18n.Locale) string {
		return Path(site, collection, l, slug)
	})
}

// Page is GetBySlug for the pages collection.
func (r *Repository) Page(ctx context.Context, site hosts.Site, locale i18n.Locale, slug string) (*Doc[PageFrontmatter], error) {
	return GetBySlug[PageFrontmatter](ctx, r, site, Pages, locale, slug)
}

// Slugs lists the documents of one locale's collection directory, sorted.
// A missing directory yields an empty list.
func (r *Repository) Slugs(ctx context.Context, site hosts.Site, collection Collection, locale i18n.Locale) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(r.fsys, Path(site, collection, locale, ""))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		slug := strings.TrimSuffix(name, ".md")
		if ValidSlug(slug) {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// LocalizedSlugs is the sorted union of slugs in locale and the default locale.
func (r *Repository) LocalizedSlugs(ctx context.Context, site hosts.Site, collection Collection, locale i18n.Locale) ([]string, error) {
	slugs, err := r.Slugs(ctx, site, collection, locale)
	if err != nil {
		return nil, err
	}
	if def := r.locales.Default(); locale != def {
		defSlugs, err := r.Slugs(ctx, site, collection, def)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(slugs))
		for _, s := range slugs {
			seen[s] = true
		}
		for _, s := range defSlugs {
			if !seen[s] {
				slugs = append(slugs, s)
			}
		}
		sort.Strings(slugs)
	}
	return slugs, nil
}

var titleCaser = cases.Title(language.English)

// TitleFromSlug turns "tax-planning_101" into "Tax Planning 101".
func TitleFromSlug(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return titleCaser.String(s)
}
