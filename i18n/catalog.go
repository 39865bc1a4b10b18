package i18n

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

//go:embed messages/*.yaml
var embeddedMessages embed.FS

// Catalog holds UI strings per locale, keyed "namespace.key".
// Lookups fall back to the default locale and then to the key itself.
type Catalog struct {
	mu       sync.RWMutex
	def      Locale
	messages map[Locale]map[string]string
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded(def Locale) (*Catalog, error) {
	sub, err := fs.Sub(embeddedMessages, "messages")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return LoadFS(sub, def)
}

// LoadDir loads <dir>/<locale>.yaml files from disk.
func LoadDir(dir string, def Locale) (*Catalog, error) {
	return LoadFS(os.DirFS(dir), def)
}

func LoadFS(fsys fs.FS, def Locale) (*Catalog, error) {
	messages, err := readCatalogs(fsys)
	if err != nil {
		return nil, err
	}
	if _, ok := messages[def]; !ok {
		return nil, errors.Errorf("no messages for default locale %q", def)
	}
	return &Catalog{def: def, messages: messages}, nil
}

func readCatalogs(fsys fs.FS) (map[Locale]map[string]string, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sort.Strings(files)

	out := make(map[Locale]map[string]string, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, errors.Wrapf(err, "read messages %s", file)
		}

		var namespaces map[string]map[string]string
		if err := yaml.Unmarshal(data, &namespaces); err != nil {
			return nil, errors.Wrapf(err, "parse messages %s", file)
		}

		flat := make(map[string]string)
		for ns, entries := range namespaces {
			for key, value := range entries {
				flat[ns+"."+key] = value
			}
		}
		out[Locale(strings.TrimSuffix(filepath.Base(file), ".yaml"))] = flat
	}
	return out, nil
}

// Reload replaces the catalog contents with the files in dir. The old
// contents stay in place if anything fails to parse.
func (c *Catalog) Reload(dir string) error {
	messages, err := readCatalogs(os.DirFS(dir))
	if err != nil {
		return err
	}
	if _, ok := messages[c.def]; !ok {
		return errors.Errorf("no messages for default locale %q", c.def)
	}
	c.mu.Lock()
	c.messages = messages
	c.mu.Unlock()
	return nil
}

// Message returns the string for key in locale.
func (c *Catalog) Message(locale Locale, key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if msg, ok := c.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := c.messages[c.def][key]; ok {
		return msg
	}
	return key
}

// Format looks up key and substitutes {name} placeholders from args.
func (c *Catalog) Format(locale Locale, key string, args map[string]string) string {
	msg := c.Message(locale, key)
	if len(args) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for name, value := range args {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Translator binds a catalog to one locale for use in templates.
func (c *Catalog) Translator(locale Locale) func(string) string {
	return func(key string) string {
		return c.Message(locale, key)
	}
}
