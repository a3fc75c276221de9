package localization_test

import (
	"testing"
	"testing/fstest"

	"citizenvoice/backend/internal/localization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LoadsEmbeddedLocales(t *testing.T) {
	// Act
	l, err := localization.New()

	// Assert
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "fr", "rw"}, l.Languages())
}

func TestLocalizer_GetString(t *testing.T) {
	// Arrange
	fsys := fstest.MapFS{
		"i18n/en.json":    {Data: []byte(`{"greeting":"Hello","only_en":"English only"}`)},
		"i18n/fr.json":    {Data: []byte(`{"greeting":"Bonjour"}`)},
		"i18n/README.txt": {Data: []byte("ignored")},
	}
	l, err := localization.NewFromFS(fsys, "i18n")
	require.NoError(t, err)

	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{"exact language", "fr", "greeting", "Bonjour"},
		{"display name", "French", "greeting", "Bonjour"},
		{"region suffix", "fr-CA", "greeting", "Bonjour"},
		{"falls back to english", "fr", "only_en", "English only"},
		{"unknown language", "de", "greeting", "Hello"},
		{"empty language", "", "greeting", "Hello"},
		{"missing key", "fr", "nope", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.GetString(tt.lang, tt.key))
		})
	}
}

func TestLocalizer_Format(t *testing.T) {
	// Arrange
	l, err := localization.New()
	require.NoError(t, err)

	// Act
	got := l.Format("Kinyarwanda", "complaint_response_short", "Mayor", "Broken pipe")

	// Assert
	assert.Equal(t, `Mayor yasubije "Broken pipe"`, got)
}

func TestNewFromFS_InvalidJSON(t *testing.T) {
	// Arrange
	fsys := fstest.MapFS{"locales/en.json": {Data: []byte(`{`)}}

	// Act
	_, err := localization.NewFromFS(fsys, "locales")

	// Assert
	assert.ErrorContains(t, err, "en.json")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "rw", localization.Code(" Kinyarwanda "))
	assert.Equal(t, "en", localization.Code("English"))
	assert.Equal(t, "en", localization.Code(""))
	assert.Equal(t, "sw", localization.Code("SW"))
}
