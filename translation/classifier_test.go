package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPortugueseVocabulary(t *testing.T) {
	assert.Equal(t, LangPortuguese, ClassifyLanguage("o a de para"))
	assert.Equal(t, LangPortuguese, ClassifyLanguage("bom dia, tudo bem?"))
	assert.Equal(t, LangPortuguese, ClassifyLanguage("obrigado pela mensagem"))
}

func TestClassifyEnglishVocabulary(t *testing.T) {
	assert.Equal(t, LangEnglish, ClassifyLanguage("the quick brown fox"))
	assert.Equal(t, LangEnglish, ClassifyLanguage("hello how are you"))
	assert.Equal(t, LangEnglish, ClassifyLanguage("thanks for the message"))
}

func TestClassifyOrthographicPatterns(t *testing.T) {
	// No vocabulary hits, but Portuguese suffixes score
	assert.Equal(t, LangPortuguese, ClassifyLanguage("tradução"))
	assert.Equal(t, LangPortuguese, ClassifyLanguage("coração"))
	assert.Equal(t, LangPortuguese, ClassifyLanguage("rapidamente"))
	assert.Equal(t, LangPortuguese, ClassifyLanguage("cachorrinho"))
}

func TestClassifyDiacriticsFallback(t *testing.T) {
	// Single word, no vocabulary or suffix hit, accent decides
	assert.Equal(t, LangPortuguese, ClassifyLanguage("JOSÉ"))
	assert.Equal(t, LangPortuguese, ClassifyLanguage("café"))
}

func TestClassifyIgnoresSurroundingPunctuation(t *testing.T) {
	// Vocabulary words still count when punctuation is attached to them
	assert.Equal(t, LangPortuguese, ClassifyLanguage("(obrigado!) você, sim."))
	assert.Equal(t, LangEnglish, ClassifyLanguage("\"hello?\" yes, please!"))
}

func TestClassifyPortugueseSignalsOverrideEnglishScore(t *testing.T) {
	// Mostly English words plus one Portuguese marker: the marker wins by policy
	assert.Equal(t, LangPortuguese, ClassifyLanguage("the meeting is tomorrow não"))
}

func TestClassifyTotality(t *testing.T) {
	inputs := []string{
		"!!!",
		"😀🎉",
		"12345",
		"x",
		"...",
		"zzz qqq www",
	}
	for _, input := range inputs {
		got := ClassifyLanguage(input)
		assert.Contains(t, []string{LangPortuguese, LangEnglish}, got,
			"classify(%q) must return a supported code", input)
	}
}

func TestClassifyDefaultsToPortuguese(t *testing.T) {
	// No signal for either language
	assert.Equal(t, LangPortuguese, ClassifyLanguage("xyz 123"))
}
