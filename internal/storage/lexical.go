package storage

import (
	"errors"
	"strings"
	"unicode"
)

// maxLexicalTerms bounds the size of the generated OR query.
const maxLexicalTerms = 16

// ErrNoTerms is returned by lexical search when the query yields no usable terms.
var ErrNoTerms = errors.New("query has no searchable terms")

var lexicalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "how": {}, "in": {}, "is": {}, "it": {}, "my": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "what": {}, "with": {},
	"怎么": {}, "么样": {}, "什么": {}, "我的": {}, "如何": {}, "是否": {}, "有没": {}, "没有": {},
	"哪些": {}, "一下": {}, "吗": {}, "呢": {}, "的": {}, "了": {}, "我": {},
}

// LexicalTerms extracts the OR-query terms for a free-text query.
// Latin and digit runs become lower-cased words; runs of Han characters become
// overlapping bigrams since journal text is not whitespace separated.
func LexicalTerms(query string) []string {
	seen := make(map[string]struct{})
	var terms []string
	add := func(term string) {
		if term == "" || len(terms) >= maxLexicalTerms {
			return
		}
		if _, stop := lexicalStopwords[term]; stop {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, run := range splitRuns(strings.ToLower(query)) {
		if !isHanRun(run) {
			if len([]rune(run)) >= 2 {
				add(run)
			}
			continue
		}
		runes := []rune(run)
		if len(runes) == 1 {
			add(run)
			continue
		}
		for i := 0; i+1 < len(runes); i++ {
			add(string(runes[i : i+2]))
		}
	}
	return terms
}

// splitRuns breaks text into maximal runs of letters/digits, splitting again
// wherever the script changes between Han and non-Han.
func splitRuns(text string) []string {
	var runs []string
	var current []rune
	currentHan := false
	flush := func() {
		if len(current) > 0 {
			runs = append(runs, string(current))
			current = current[:0]
		}
	}
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		han := unicode.Is(unicode.Han, r)
		if len(current) > 0 && han != currentHan {
			flush()
		}
		currentHan = han
		current = append(current, r)
	}
	flush()
	return runs
}

func isHanRun(run string) bool {
	for _, r := range run {
		return unicode.Is(unicode.Han, r)
	}
	return false
}

// likePattern escapes LIKE wildcards in term and wraps it for a substring match.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// LexicalClause builds the OR-of-terms match and a score expression counting
// how many terms hit content or reflections. op is the dialect's
// case-insensitive LIKE operator. Both use ? placeholders; the score args must
// be bound before the match args.
func LexicalClause(terms []string, op string) (score string, scoreArgs []any, match string, matchArgs []any) {
	scoreParts := make([]string, 0, len(terms))
	matchParts := make([]string, 0, len(terms))
	for _, term := range terms {
		p := likePattern(term)
		cond := "(content " + op + ` ? ESCAPE '\' OR reflections ` + op + ` ? ESCAPE '\')`
		scoreParts = append(scoreParts, "(CASE WHEN "+cond+" THEN 1 ELSE 0 END)")
		matchParts = append(matchParts, cond)
		scoreArgs = append(scoreArgs, p, p)
		matchArgs = append(matchArgs, p, p)
	}
	return strings.Join(scoreParts, " + "), scoreArgs, "(" + strings.Join(matchParts, " OR ") + ")", matchArgs
}
