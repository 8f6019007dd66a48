package classify

import "strings"

// subcategoryRule refines a parent category when its marker occurs in the
// lowercased title+description. Evaluated in order, first match wins.
type subcategoryRule struct {
	label string
	match func(text string) bool
}

func anyOf(markers ...string) func(string) bool {
	return func(text string) bool {
		for _, m := range markers {
			if strings.Contains(text, m) {
				return true
			}
		}
		return false
	}
}

var subcategoryRules = map[string][]subcategoryRule{
	"Web Dev": {
		{"React", anyOf("react")},
		{"Vue.js", anyOf("vue")},
		{"Angular", anyOf("angular")},
		{"Node.js", anyOf("node")},
		{"Frontend", anyOf("frontend")},
		{"Backend", anyOf("backend")},
		{"Full Stack", anyOf("fullstack", "full stack")},
	},
	"AI/ML": {
		{"TensorFlow", anyOf("tensorflow")},
		{"PyTorch", anyOf("pytorch")},
		{"Deep Learning", anyOf("deep learning")},
		{"Computer Vision", anyOf("computer vision")},
		{"NLP", anyOf("nlp", "natural language")},
	},
	"Programming": {
		{"Python", anyOf("python")},
		{"JavaScript", anyOf("javascript")},
		// "java" alone would also hit every "javascript" mention.
		{"Java", func(text string) bool {
			return strings.Contains(text, "java") && !strings.Contains(text, "javascript")
		}},
		{"C++", anyOf("c++")},
	},
}

// DetermineSubcategory refines a category into a subcategory based on the
// course title and description. Categories without refinement rules, and
// texts matching no rule, keep the category itself.
func DetermineSubcategory(category, text string) string {
	rules, ok := subcategoryRules[category]
	if !ok {
		return category
	}
	lower := strings.ToLower(text)
	for _, rule := range rules {
		if rule.match(lower) {
			return rule.label
		}
	}
	return category
}

// tagVocabulary lists the quality and level markers recognized by
// ExtractTags, in the order they are reported.
var tagVocabulary = []string{
	"beginner", "intermediate", "advanced", "tutorial", "course", "complete",
	"full", "crash course", "bootcamp", "masterclass", "certification",
	"project", "hands-on", "practical", "theory", "2024", "2025",
}

// ExtractTags returns the vocabulary entries occurring as substrings of the
// lowercased text, in vocabulary order.
func ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	tags := make([]string, 0, 4)
	for _, tag := range tagVocabulary {
		if strings.Contains(lower, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}
