package translation

import (
	"regexp"
	"strings"
)

// Supported language codes. The whole pipeline is closed over exactly these
// two values; anything else reported by the remote service is normalized.
const (
	LangPortuguese = "pt-BR"
	LangEnglish    = "en"
)

// ptVocabulary holds common short Portuguese function words. A verbatim token
// match scores +2. Tokens shared with everyday English ("a", "do", "no") are
// left out so plain English sentences don't pick up Portuguese points.
var ptVocabulary = wordSet(
	"o", "os", "de", "da", "das", "em", "na", "nas",
	"um", "uma", "uns", "umas", "para", "pra", "por", "com", "sem", "que",
	"não", "nao", "sim", "e", "mas", "ou", "se", "eu", "você", "voce",
	"ele", "ela", "nós", "meu", "minha", "seu", "sua", "é", "são", "sao",
	"está", "esta", "estou", "ser", "tem", "tinha", "foi", "já", "ja",
	"muito", "muita", "bem", "também", "tambem", "quando", "onde", "porque",
	"obrigado", "obrigada", "olá", "ola", "oi", "tudo", "bom", "boa",
	"dia", "noite", "tarde", "hoje", "agora", "aqui", "isso", "essa", "esse",
)

// enVocabulary holds common short English function words, scored the same way
var enVocabulary = wordSet(
	"the", "and", "is", "are", "was", "were", "be", "been", "am",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us",
	"them", "my", "your", "his", "its", "our", "their",
	"this", "that", "these", "those", "to", "of", "in", "on", "at", "for",
	"with", "from", "by", "about", "not", "but", "or", "if", "then",
	"there", "here", "what", "when", "where", "who", "how", "why",
	"yes", "no", "do", "does", "did", "can", "will", "would", "should",
	"could", "have", "has", "had", "just", "like", "know", "want", "good",
	"hello", "hi", "hey", "thanks", "thank", "please", "morning", "night",
)

// ptPatterns are orthographic markers specific to Portuguese. Each token
// matching a pattern scores +1 regardless of vocabulary hits.
var ptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ção$`),
	regexp.MustCompile(`ções$`),
	regexp.MustCompile(`ão$`),
	regexp.MustCompile(`ões$`),
	regexp.MustCompile(`(inho|inha|zinho|zinha)$`),
	regexp.MustCompile(`mente$`),
	regexp.MustCompile(`ç`),
	regexp.MustCompile(`lh`),
	regexp.MustCompile(`nh`),
}

// ptDiacritics is the accent set used as a last-resort Portuguese signal
const ptDiacritics = "áàâãéêíóôõúüç"

// ClassifyLanguage decides between pt-BR and en for a short text without any
// network access. It always commits to one of the two codes; there is no
// "unknown" result.
//
// Scoring: vocabulary hits are worth 2 points per token, Portuguese
// orthographic patterns 1 point per token. Any Portuguese score at all wins
// outright: Portuguese-specific markers are a stronger signal than generic
// word overlap, so this is not a highest-score-wins comparison.
func ClassifyLanguage(text string) string {
	scorePT, scoreEN := 0, 0

	for _, raw := range strings.Fields(text) {
		token := strings.Trim(strings.ToLower(raw), ".,!?;:\"'()[]")
		if token == "" {
			continue
		}

		if ptVocabulary[token] {
			scorePT += 2
		}
		if enVocabulary[token] {
			scoreEN += 2
		}
		for _, p := range ptPatterns {
			if p.MatchString(token) {
				scorePT++
			}
		}
	}

	if scorePT > 0 {
		return LangPortuguese
	}
	if strings.ContainsAny(strings.ToLower(text), ptDiacritics) {
		return LangPortuguese
	}
	if scoreEN > scorePT {
		return LangEnglish
	}
	return LangPortuguese
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
