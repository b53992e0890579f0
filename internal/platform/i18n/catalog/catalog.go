// Package catalog loads the YAML message catalogs shipped with the binary and
// registers them with golang.org/x/text/message.
//
// A catalog file lives at locales/<locale>/<namespace>.yaml and declares the
// same locale and namespace in its header. Keys are namespaced
// ("validation.title_required").
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale holds the complete key set. Other locales fall back to it.
const BaseLocale = "en-US"

const filePattern = "locales/*/*.yaml"

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustRegister(LoadEmbedded())

// Default returns the embedded bundle, already registered.
func Default() *Bundle { return defaultBundle }

type file struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle maps locale to message key to text.
type Bundle struct {
	texts map[string]map[string]string
	// namespaces seen per locale, to reject a namespace split over two files.
	namespaces map[string]map[string]bool
}

// LoadEmbedded parses the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) { return LoadFromFS(embedded) }

// LoadFromFS parses every catalog file under locales/ in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, filePattern)
	if err != nil {
		return nil, fmt.Errorf("catalog: glob: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("catalog: no files match %s", filePattern)
	}
	slices.Sort(paths)

	b := &Bundle{texts: map[string]map[string]string{}, namespaces: map[string]map[string]bool{}}
	for _, p := range paths {
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", p, err)
		}
		var f file
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", p, err)
		}
		if err := b.merge(p, f); err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", p, err)
		}
	}
	if _, ok := b.texts[BaseLocale]; !ok {
		return nil, fmt.Errorf("catalog: base locale %s missing", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) merge(p string, f file) error {
	locale := strings.TrimSpace(f.Locale)
	namespace := strings.TrimSpace(f.Namespace)
	wantLocale := path.Base(path.Dir(p))
	wantNamespace := strings.TrimSuffix(path.Base(p), ".yaml")

	switch {
	case locale != wantLocale:
		return fmt.Errorf("locale %q does not match directory %q", locale, wantLocale)
	case namespace != wantNamespace:
		return fmt.Errorf("namespace %q does not match file name %q", namespace, wantNamespace)
	case len(f.Messages) == 0:
		return fmt.Errorf("no messages")
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("locale %q: %w", locale, err)
	}
	if b.namespaces[locale][namespace] {
		return fmt.Errorf("namespace %q defined twice for %s", namespace, locale)
	}

	texts := b.texts[locale]
	if texts == nil {
		texts = map[string]string{}
		b.texts[locale] = texts
		b.namespaces[locale] = map[string]bool{}
	}
	b.namespaces[locale][namespace] = true
	for key, text := range f.Messages {
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, namespace+".") || key == namespace+"." {
			return fmt.Errorf("key %q is outside namespace %q", key, namespace)
		}
		if _, dup := texts[key]; dup {
			return fmt.Errorf("key %q defined twice", key)
		}
		texts[key] = text
	}
	return nil
}

// Register installs every message with x/text/message under the locale tag
// and its bare language ("ja" for "ja-JP"). Keys missing from a locale use
// the base text, so a printer never renders a raw key.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag := language.MustParse(locale)
		tags := []language.Tag{tag}
		if lang, conf := tag.Base(); conf != language.No {
			if bare := language.Make(lang.String()); bare != tag {
				tags = append(tags, bare)
			}
		}
		for key, text := range b.withFallback(locale) {
			for _, t := range tags {
				if err := message.SetString(t, key, text); err != nil {
					return fmt.Errorf("catalog: register %s %s: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

func (b *Bundle) withFallback(locale string) map[string]string {
	merged := make(map[string]string, len(b.texts[BaseLocale]))
	for key, text := range b.texts[BaseLocale] {
		merged[key] = text
	}
	for key, text := range b.texts[locale] {
		merged[key] = text
	}
	return merged
}

// Locales lists the loaded locales in sorted order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.texts))
	for locale := range b.texts {
		out = append(out, locale)
	}
	slices.Sort(out)
	return out
}

// Tags lists the loaded locales as language tags with the base locale first,
// the order language.NewMatcher expects.
func (b *Bundle) Tags() []language.Tag {
	tags := []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range b.Locales() {
		if locale != BaseLocale {
			tags = append(tags, language.MustParse(locale))
		}
	}
	return tags
}

// Message looks key up in locale, then in the base locale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	if text, ok := b.texts[strings.TrimSpace(locale)][key]; ok {
		return text, true
	}
	text, ok := b.texts[BaseLocale][key]
	return text, ok
}

// Keys returns the sorted keys defined directly in locale.
func (b *Bundle) Keys(locale string) []string {
	if b == nil {
		return nil
	}
	keys := make([]string, 0, len(b.texts[locale]))
	for key := range b.texts[locale] {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func mustRegister(b *Bundle, err error) *Bundle {
	if err == nil {
		err = b.Register()
	}
	if err != nil {
		panic(err)
	}
	return b
}
