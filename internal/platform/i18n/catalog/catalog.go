// Package catalog loads the embedded UI and error message catalogs.
//
// Each file under locales/<locale>/<namespace>.yaml uses a flat subset of
// YAML:
//
//	locale: "pt-BR"
//	namespace: "roller"
//	messages:
//	  "roller.outcome.hope": "Esperança"
//
// Keys are unique per locale across namespaces, and keys prefixed with
// "core." belong to the core namespace.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the locale every lookup falls back to.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Bundle holds all loaded locales.
type Bundle struct {
	locales map[string]*localeMessages
}

type localeMessages struct {
	namespaces map[string]map[string]string
	all        map[string]string
}

type file struct {
	locale    string
	namespace string
	messages  map[string]string
}

// Default returns the embedded bundle, already registered with x/text.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded parses the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS parses every locales/*/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	b := &Bundle{locales: map[string]*localeMessages{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		f, err := parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, f); err != nil {
			return nil, err
		}
	}
	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is missing", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) add(p string, f file) error {
	wantLocale := path.Base(path.Dir(p))
	wantNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if f.locale != wantLocale {
		return fmt.Errorf("catalog %s: locale %q does not match directory %q", p, f.locale, wantLocale)
	}
	if f.namespace != wantNamespace {
		return fmt.Errorf("catalog %s: namespace %q does not match file name %q", p, f.namespace, wantNamespace)
	}

	lm, ok := b.locales[f.locale]
	if !ok {
		lm = &localeMessages{namespaces: map[string]map[string]string{}, all: map[string]string{}}
		b.locales[f.locale] = lm
	}
	if _, dup := lm.namespaces[f.namespace]; dup {
		return fmt.Errorf("catalog %s: namespace %q defined twice", p, f.namespace)
	}
	for key, value := range f.messages {
		if strings.HasPrefix(key, "core.") && f.namespace != "core" {
			return fmt.Errorf("catalog %s: key %q belongs in the core namespace", p, key)
		}
		if _, dup := lm.all[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q in %s", p, key, f.locale)
		}
		lm.all[key] = value
	}
	lm.namespaces[f.namespace] = f.messages
	return nil
}

// Register installs every message with x/text/message so printers built
// for a locale (or its base language) resolve keys directly.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.locales[locale].all {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", locale, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether locale was loaded.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[locale]
	return ok
}

// Locales returns the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	return slices.Sorted(maps.Keys(b.locales))
}

// Namespaces returns the namespaces defined for locale.
func (b *Bundle) Namespaces(locale string) []string {
	lm, ok := b.locales[locale]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(lm.namespaces))
}

// Keys returns every key defined for locale.
func (b *Bundle) Keys(locale string) []string {
	lm, ok := b.locales[locale]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(lm.all))
}

// Message looks key up in locale, then in BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if lm, ok := b.locales[locale]; ok {
		if v, ok := lm.all[key]; ok {
			return v, true
		}
	}
	if lm, ok := b.locales[BaseLocale]; ok {
		v, ok := lm.all[key]
		return v, ok
	}
	return "", false
}

// Namespace returns a copy of one namespace and the locale that served it.
// Unknown locales fall back to BaseLocale.
func (b *Bundle) Namespace(locale, namespace string) (string, map[string]string) {
	if lm, ok := b.locales[locale]; ok {
		if msgs, ok := lm.namespaces[namespace]; ok {
			return locale, maps.Clone(msgs)
		}
	}
	if lm, ok := b.locales[BaseLocale]; ok {
		return BaseLocale, maps.Clone(lm.namespaces[namespace])
	}
	return BaseLocale, map[string]string{}
}

func mustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}

func parse(data string) (file, error) {
	f := file{messages: map[string]string{}}
	inMessages := false
	for n, raw := range strings.Split(data, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(line, "locale:"):
			f.locale, err = strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
		case strings.HasPrefix(line, "namespace:"):
			f.namespace, err = strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
		case line == "messages:":
			inMessages = true
		case inMessages:
			var key, value string
			key, value, err = parseEntry(line)
			if err == nil {
				if strings.TrimSpace(key) == "" {
					err = fmt.Errorf("blank key")
				} else {
					f.messages[key] = value
				}
			}
		default:
			err = fmt.Errorf("unexpected content")
		}
		if err != nil {
			return file{}, fmt.Errorf("line %d: %w", n+1, err)
		}
	}
	switch {
	case f.locale == "":
		return file{}, fmt.Errorf("missing locale")
	case f.namespace == "":
		return file{}, fmt.Errorf("missing namespace")
	case len(f.messages) == 0:
		return file{}, fmt.Errorf("missing messages")
	}
	return f, nil
}

func parseEntry(line string) (string, string, error) {
	quotedKey, err := strconv.QuotedPrefix(line)
	if err != nil {
		return "", "", fmt.Errorf("key: %w", err)
	}
	key, err := strconv.Unquote(quotedKey)
	if err != nil {
		return "", "", fmt.Errorf("key: %w", err)
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(line[len(quotedKey):]), ":")
	if !ok {
		return "", "", fmt.Errorf("missing ':' after %s", quotedKey)
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest))
	if err != nil {
		return "", "", fmt.Errorf("value: %w", err)
	}
	return key, value, nil
}
