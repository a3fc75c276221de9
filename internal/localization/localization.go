// Package localization provides the translated notification texts.
// Translations are JSON files embedded from locales/, one per language code.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// DefaultLanguage is used when a key is missing in the requested language.
const DefaultLanguage = "en"

//go:embed locales/*.json
var embedded embed.FS

// languageNames maps the display names stored on user profiles to codes.
var languageNames = map[string]string{
	"english":     "en",
	"french":      "fr",
	"français":    "fr",
	"kinyarwanda": "rw",
}

// Localizer manages the translations for the application.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// New loads the embedded translations.
func New() (*Localizer, error) {
	return NewFromFS(embedded, "locales")
}

// NewFromFS loads every <lang>.json file found in dir of fsys.
func NewFromFS(fsys fs.FS, dir string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[lang] = translations
	}

	return l, nil
}

// Code normalizes a language code or display name ("Kinyarwanda", "FR") to a
// lowercase code. Unknown values fall back to DefaultLanguage.
func Code(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if code, ok := languageNames[lang]; ok {
		return code
	}
	if base, _, ok := strings.Cut(lang, "-"); ok {
		lang = base
	}
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// GetString returns the localized string for a given key and language.
// If the language or the key is not found, it falls back to English and then
// to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lang = Code(lang)
	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != DefaultLanguage {
		if enTranslations, ok := l.translations[DefaultLanguage]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}

	return key
}

// Format looks up key and applies args with fmt.Sprintf.
func (l *Localizer) Format(lang, key string, args ...any) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Languages returns the loaded language codes.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	langs := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		langs = append(langs, lang)
	}
	return langs
}
