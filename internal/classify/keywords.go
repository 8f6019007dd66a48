package classify

// categoryOrder preserves the collection order of the built-in categories.
var categoryOrder = []string{
	"AI/ML",
	"Web Dev",
	"Data Science",
	"Mobile",
	"Cloud",
	"Cybersecurity",
	"DevOps",
	"Programming",
	"Database",
	"Design",
}

// searchKeywords holds the search phrases tried per category, in priority
// order, when collecting courses.
var searchKeywords = map[string][]string{
	"AI/ML": {
		"machine learning course", "deep learning tutorial", "artificial intelligence course",
		"neural networks tutorial", "tensorflow course", "pytorch tutorial", "AI course",
		"computer vision course", "NLP tutorial", "reinforcement learning",
	},
	"Web Dev": {
		"web development course", "javascript tutorial", "react course", "vue tutorial",
		"angular course", "node.js tutorial", "full stack development", "web programming",
		"HTML CSS tutorial", "responsive design course", "frontend development", "backend development",
	},
	"Data Science": {
		"data science course", "python data analysis", "pandas tutorial", "data visualization",
		"statistics course", "SQL tutorial", "big data course", "data engineering",
		"jupyter notebook tutorial", "numpy course",
	},
	"Mobile": {
		"android development course", "iOS development tutorial", "react native course",
		"flutter tutorial", "mobile app development", "swift course", "kotlin tutorial",
		"app development course",
	},
	"Cloud": {
		"AWS course", "Azure tutorial", "google cloud course", "cloud computing tutorial",
		"docker course", "kubernetes tutorial", "serverless course", "cloud architecture",
	},
	"Cybersecurity": {
		"cybersecurity course", "ethical hacking tutorial", "network security course",
		"penetration testing tutorial", "information security course", "CISSP tutorial",
		"security course",
	},
	"DevOps": {
		"DevOps course", "CI/CD tutorial", "jenkins course", "terraform tutorial",
		"ansible course", "infrastructure as code", "site reliability engineering",
	},
	"Programming": {
		"python programming course", "java tutorial", "C++ course", "javascript course",
		"go programming tutorial", "rust course", "programming fundamentals",
		"coding course", "software development tutorial",
	},
	"Database": {
		"database course", "SQL tutorial", "MongoDB course", "PostgreSQL tutorial",
		"database design course", "MySQL tutorial", "NoSQL course",
	},
	"Design": {
		"UI design course", "UX design tutorial", "graphic design course", "figma tutorial",
		"web design course", "design thinking tutorial", "Adobe XD course",
	},
}

// Categories returns the built-in category names in collection order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Keywords returns the search phrases for a built-in category, or nil for
// an unknown category.
func Keywords(category string) []string {
	kws, ok := searchKeywords[category]
	if !ok {
		return nil
	}
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}
