package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTranslations(t *testing.T) {
	i := New("en")
	require.NoError(t, i.LoadTranslations())

	assert.True(t, i.Supports("en"))
	assert.True(t, i.Supports("zh_TW"))
	assert.Equal(t, "Collection not found", i.T("en", KeyCollectionNotFound))
	assert.Equal(t, "找不到收藏集", i.T("zh_TW", KeyCollectionNotFound))
	assert.Equal(t, "Invalid input", i.T("en", KeyValidationInvalid, "input"))
}

func TestT_Fallbacks(t *testing.T) {
	i := New("en")
	require.NoError(t, i.LoadTranslations())

	assert.Equal(t, "Mint submitted", i.T("fr", KeyNFTMintSubmitted))
	assert.Equal(t, "no.such.key", i.T("en", "no.such.key"))
}

func TestLocalesShareKeys(t *testing.T) {
	i := New("en")
	require.NoError(t, i.LoadTranslations())

	for key := range i.translations["en"] {
		_, ok := i.translations["zh_TW"][key]
		assert.True(t, ok, "zh_TW missing %s", key)
	}
}

func TestGlobalInitialize(t *testing.T) {
	require.NoError(t, Initialize("en"))
	assert.Equal(t, "Success", T("en", KeySuccess))
	assert.Equal(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
	assert.Equal(t, "en", DefaultLanguage())
}
