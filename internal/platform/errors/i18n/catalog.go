// Package i18n renders localized error messages from the "errors" catalog
// namespace.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/dualidade/internal/platform/i18n/catalog"
)

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale    string
	messages  map[string]string
	mu        sync.Mutex
	templates map[string]*template.Template
}

var catalogs sync.Map // locale -> *Catalog

// GetCatalog returns the catalog for locale, falling back to the base locale.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if c, ok := catalogs.Load(requested); ok {
		return c.(*Catalog)
	}
	resolved, messages := i18ncatalog.Default().Namespace(requested, "errors")
	c, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return c.(*Catalog)
}

// NewCatalog builds a catalog from code -> template pairs.
func NewCatalog(locale string, messages map[string]string) *Catalog {
	cloned := make(map[string]string, len(messages))
	for k, v := range messages {
		cloned[k] = v
	}
	return &Catalog{locale: locale, messages: cloned, templates: map[string]*template.Template{}}
}

// Locale returns the catalog's locale.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders code's template with metadata. Unknown codes render as the
// code itself; broken templates render verbatim.
func (c *Catalog) Format(code string, metadata map[string]string) string {
	raw, ok := c.messages[code]
	if !ok {
		return code
	}
	if !strings.Contains(raw, "{{") {
		return raw
	}
	tmpl, err := c.template(code, raw)
	if err != nil {
		return raw
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return raw
	}
	return b.String()
}

func (c *Catalog) template(code, raw string) (*template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.templates[code]; ok {
		return t, nil
	}
	t, err := template.New(code).Parse(raw)
	if err != nil {
		return nil, err
	}
	c.templates[code] = t
	return t, nil
}
