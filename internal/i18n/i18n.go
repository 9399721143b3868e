package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/findmylink/companion/internal/logger"
)

// Bundle holds every loaded locale table, flattened to dotted keys.
type Bundle struct {
	locales  map[string]map[string]string
	fallback string
	log      logger.Logger
}

// Load reads every <lang>.yaml file in dir. Nested mappings flatten to
// dotted keys ("search.sort_recent"). The fallback language must be present.
func Load(dir, fallback string, log logger.Logger) (*Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read locale dir: %w", err)
	}

	locales := make(map[string]map[string]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		lang := strings.TrimSuffix(name, ".yaml")

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", name, err)
		}

		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", name, err)
		}

		table := make(map[string]string)
		flatten("", tree, table)
		locales[lang] = table
	}

	if _, ok := locales[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %q not found in %s", fallback, dir)
	}

	return &Bundle{locales: locales, fallback: fallback, log: log}, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			flatten(full, v, out)
		}
	}
}

// Languages returns the loaded locale codes.
func (b *Bundle) Languages() []string {
	langs := make([]string, 0, len(b.locales))
	for lang := range b.locales {
		langs = append(langs, lang)
	}
	return langs
}

// Pick resolves a detected language to a Translator. A language like
// "ru-RU" matches the "ru" locale; anything unknown falls back.
func (b *Bundle) Pick(lang string) *Translator {
	resolved := b.fallback
	for code := range b.locales {
		if lang == code || strings.HasPrefix(lang, code+"-") || strings.HasPrefix(lang, code+"_") {
			resolved = code
			break
		}
	}
	return &Translator{
		lang:     resolved,
		table:    b.locales[resolved],
		fallback: b.locales[b.fallback],
		log:      b.log,
	}
}

// Translator answers lookups for one resolved language.
type Translator struct {
	lang     string
	table    map[string]string
	fallback map[string]string
	log      logger.Logger
}

// Lang returns the resolved locale code.
func (t *Translator) Lang() string { return t.lang }

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// T looks up a dotted key and substitutes {param} placeholders. A missing
// key returns the raw key itself and logs a warning; an unknown placeholder
// stays as-is in the output.
func (t *Translator) T(key string, params map[string]string) string {
	value, ok := t.table[key]
	if !ok {
		value, ok = t.fallback[key]
	}
	if !ok {
		t.log.Warn("translation key not found",
			logger.String("key", key),
			logger.String("lang", t.lang))
		return key
	}

	if len(params) == 0 && !strings.Contains(value, "{") {
		return value
	}
	return placeholderRe.ReplaceAllStringFunc(value, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := params[name]; ok {
			return v
		}
		return m
	})
}
