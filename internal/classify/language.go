package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// languageRule matches a language by marker words, a Unicode script range,
// or both. Rules are evaluated in declaration order and the first hit wins;
// the marker vocabularies overlap (several Latin-script languages claim
// "tutorial"), so reordering the table changes results.
//
// Latin-script rules match marker words on word boundaries. Script rules
// match any rune of the script, and their marker words as plain substrings.
type languageRule struct {
	code    string
	words   []string
	scripts []*unicode.RangeTable
}

var languageRules = []languageRule{
	{code: "en", words: []string{"english", "tutorial", "course", "learn", "guide"}},
	{code: "es", words: []string{"español", "tutorial", "curso", "aprende", "guía"}},
	{code: "zh", words: []string{"中文", "教程", "课程"}, scripts: []*unicode.RangeTable{unicode.Han}},
	{code: "hi", words: []string{"हिंदी", "ट्यूटोरियल"}, scripts: []*unicode.RangeTable{unicode.Devanagari}},
	{code: "ar", words: []string{"عربي", "دروس"}, scripts: []*unicode.RangeTable{unicode.Arabic}},
	{code: "pt", words: []string{"português", "tutorial", "curso", "aprenda"}},
	{code: "fr", words: []string{"français", "tutoriel", "cours", "apprendre"}},
	{code: "de", words: []string{"deutsch", "tutorial", "kurs", "lernen"}},
	{code: "ja", words: []string{"日本語", "チュートリアル"}, scripts: []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana}},
	{code: "ko", words: []string{"한국어", "튜토리얼"}, scripts: []*unicode.RangeTable{unicode.Hangul}},
	{code: "ru", words: []string{"русский", "учебник"}, scripts: []*unicode.RangeTable{unicode.Cyrillic}},
	{code: "it", words: []string{"italiano", "tutorial", "corso", "imparare"}},
	{code: "tr", words: []string{"türkçe", "eğitim", "kurs", "öğren"}},
	{code: "id", words: []string{"indonesia", "tutorial", "kursus", "belajar"}},
	{code: "vi", words: []string{"tiếng việt", "hướng dẫn", "khóa học"}},
}

var languageNames = map[string]string{
	"en": "English", "es": "Spanish", "zh": "Chinese", "hi": "Hindi",
	"ar": "Arabic", "pt": "Portuguese", "fr": "French", "de": "German",
	"ja": "Japanese", "ko": "Korean", "ru": "Russian", "it": "Italian",
	"tr": "Turkish", "id": "Indonesian", "vi": "Vietnamese",
}

// DetectLanguage classifies the language of a playlist from its title and
// description. When no rule matches it falls back to the declared default
// (the platform's defaultLanguage/defaultAudioLanguage), then to "en".
//
// The marker vocabulary is deliberately coarse: English loanwords such as
// "tutorial" appear in non-English metadata and hit the "en" rule first.
// Downstream language filters depend on this behavior, so keep it.
func DetectLanguage(title, description, declaredDefault string) string {
	text := strings.ToLower(title + " " + description)

	for _, rule := range languageRules {
		if rule.matches(text) {
			return rule.code
		}
	}

	if declaredDefault != "" {
		return declaredDefault
	}
	return "en"
}

// LanguageName maps a detected language code to its display name. Unknown
// codes default to "English".
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

func (r languageRule) matches(text string) bool {
	for _, script := range r.scripts {
		for _, ch := range text {
			if unicode.Is(script, ch) {
				return true
			}
		}
	}
	for _, w := range r.words {
		if len(r.scripts) > 0 {
			if strings.Contains(text, w) {
				return true
			}
			continue
		}
		if containsWord(text, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs in text on word boundaries.
func containsWord(text, w string) bool {
	for start := 0; start <= len(text)-len(w); {
		idx := strings.Index(text[start:], w)
		if idx < 0 {
			return false
		}
		idx += start
		if boundaryBefore(text, idx) && boundaryAfter(text, idx+len(w)) {
			return true
		}
		start = idx + 1
	}
	return false
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:idx])
	return !isWordRune(prev)
}

func boundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[idx:])
	return !isWordRune(next)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
