package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(newViper())
	require.NoError(t, err)

	assert.Equal(t, DialectBracket, s.Dialect)
	assert.Equal(t, TranscriberOpenAI, s.Transcriber)
	assert.Equal(t, "gemini-2.5-flash", s.GeminiModel)
	assert.True(t, s.ShowStats)
	assert.False(t, s.ExcludeImages)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "languages", s.LangDir)
}

func TestResolveOverridesWinOverDefaults(t *testing.T) {
	v := newViper()
	v.Set("dialect", DialectBlocks)
	v.Set("language", "it")
	v.Set("exclude_images", true)

	s, err := Resolve(v)
	require.NoError(t, err)
	assert.Equal(t, DialectBlocks, s.Dialect)
	assert.Equal(t, "it", s.Language)
	assert.True(t, s.ExcludeImages)
}

func TestResolveRejectsUnknownDialect(t *testing.T) {
	v := newViper()
	v.Set("dialect", "xml")

	_, err := Resolve(v)
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestResolveRejectsUnknownTranscriber(t *testing.T) {
	v := newViper()
	v.Set("transcriber", "whisperx")

	_, err := Resolve(v)
	assert.ErrorContains(t, err, "unknown transcriber")
}

func TestResolveGeminiRequiresKey(t *testing.T) {
	v := newViper()
	v.Set("transcriber", TranscriberGemini)

	_, err := Resolve(v)
	assert.ErrorContains(t, err, "gemini_api_key")

	v.Set("gemini_api_key", "test-key")
	s, err := Resolve(v)
	require.NoError(t, err)
	assert.Equal(t, TranscriberGemini, s.Transcriber)
}

func TestEnvironmentLayer(t *testing.T) {
	v := newViper()
	v.SetEnvPrefix("CHATTR")
	v.AutomaticEnv()
	t.Setenv("CHATTR_OWNER_NAME", "Maria Lopez")

	s, err := Resolve(v)
	require.NoError(t, err)
	assert.Equal(t, "Maria Lopez", s.OwnerName)
}
