package index

import (
	"strings"
	"unicode"
)

// matchQuery turns free user input into an FTS5 MATCH expression. Each
// whitespace-separated term becomes a quoted string, so FTS5 operators and
// stray quotes are matched literally; terms are ANDed. A trailing '*' on a
// term keeps prefix matching. Returns "" when the input has no terms.
func matchQuery(input string) string {
	terms := strings.Fields(input)
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		prefix := strings.HasSuffix(term, "*")
		term = strings.TrimRight(term, "*")
		if !strings.ContainsFunc(term, isWordRune) {
			// Punctuation only; the tokenizer would yield an empty phrase.
			continue
		}
		q := `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
		if prefix {
			q += "*"
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// likeEscaper escapes LIKE wildcards for patterns using ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
