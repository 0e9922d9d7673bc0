package lang

import "strings"

// Tag is a display language used for syntax highlighting
type Tag string

const (
	TypeScript Tag = "typescript"
	JavaScript Tag = "javascript"
	Python     Tag = "python"
	JSON       Tag = "json"
	CSS        Tag = "css"
	HTML       Tag = "html"
	Markdown   Tag = "markdown"
	PlainText  Tag = "plaintext"
)

// suffixRule maps a set of filename suffixes to a tag
type suffixRule struct {
	suffixes []string
	tag      Tag
}

// rules are checked in order, first match wins
var rules = []suffixRule{
	{[]string{".ts", ".tsx"}, TypeScript},
	{[]string{".js", ".jsx"}, JavaScript},
	{[]string{".py"}, Python},
	{[]string{".json"}, JSON},
	{[]string{".css"}, CSS},
	{[]string{".html"}, HTML},
	{[]string{".md"}, Markdown},
}

// Detect returns the language tag for a file path.
// Matching is by case-sensitive suffix; unknown suffixes yield PlainText.
func Detect(path string) Tag {
	for _, r := range rules {
		for _, s := range r.suffixes {
			if strings.HasSuffix(path, s) {
				return r.tag
			}
		}
	}
	return PlainText
}

// Tags returns every tag Detect can produce
func Tags() []Tag {
	tags := make([]Tag, 0, len(rules)+1)
	for _, r := range rules {
		tags = append(tags, r.tag)
	}
	return append(tags, PlainText)
}

// Lexer returns the chroma lexer name for the tag
func (t Tag) Lexer() string {
	switch t {
	case PlainText, "":
		return "plaintext"
	default:
		return string(t)
	}
}

func (t Tag) String() string { return string(t) }
