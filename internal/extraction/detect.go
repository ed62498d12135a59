package extraction

import (
	"strings"
	"unicode"
)

// tokenize lowercases s and splits it into runs of letters, digits and
// combining marks. Punctuation and whitespace separate tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
}

// phrase is a tokenized lexicon phrase.
type phrase []string

// matchAt reports whether p occurs in tokens starting at i.
func (p phrase) matchAt(tokens []string, i int) bool {
	if len(p) == 0 || i+len(p) > len(tokens) {
		return false
	}
	for j, word := range p {
		if tokens[i+j] != word {
			return false
		}
	}
	return true
}

// in reports whether p occurs anywhere in tokens.
func (p phrase) in(tokens []string) bool {
	for i := range tokens {
		if p.matchAt(tokens, i) {
			return true
		}
	}
	return false
}

func compilePhrases(raw []string) []phrase {
	out := make([]phrase, 0, len(raw))
	for _, r := range raw {
		if p := phrase(tokenize(r)); len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func anyIn(phrases []phrase, tokens []string) bool {
	for _, p := range phrases {
		if p.in(tokens) {
			return true
		}
	}
	return false
}

type temporalPhrase struct {
	phrase phrase
	offset int
}

type tableRule struct {
	entry    TableEntry
	triggers []phrase
}

// matcher is a Lexicon compiled for token matching.
type matcher struct {
	indicators []phrase
	urgency    []phrase
	filler     []phrase
	temporal   []temporalPhrase
	table      []tableRule
}

func newMatcher(lex *Lexicon) *matcher {
	m := &matcher{
		indicators: compilePhrases(lex.Indicators),
		urgency:    compilePhrases(lex.Urgency),
		filler:     compilePhrases(lex.Filler),
	}

	for _, marker := range lex.Temporal {
		for _, p := range compilePhrases(marker.Phrases) {
			m.temporal = append(m.temporal, temporalPhrase{phrase: p, offset: marker.Offset})
		}
	}

	for _, entry := range lex.Table {
		m.table = append(m.table, tableRule{entry: entry, triggers: compilePhrases(entry.Triggers)})
	}

	return m
}

// signals is what detection found in a message.
type signals struct {
	words        int
	hasIndicator bool
	urgent       bool
	// dayOffset is the first temporal marker's offset, nil when none was found
	dayOffset *int
	// entry is the first matching fallback table entry, nil when none matched
	entry *TableEntry
}

// detect scans message for task indicators, urgency, temporal markers and
// fallback table triggers.
func (m *matcher) detect(message string) signals {
	tokens := tokenize(message)
	sig := signals{
		words:        len(strings.Fields(message)),
		hasIndicator: anyIn(m.indicators, tokens),
		urgent:       anyIn(m.urgency, tokens),
		dayOffset:    m.temporalOffset(tokens),
	}

	for i := range m.table {
		if anyIn(m.table[i].triggers, tokens) {
			entry := m.table[i].entry
			sig.entry = &entry
			break
		}
	}

	return sig
}

// temporalOffset returns the offset of the earliest temporal marker in tokens.
// When several markers start at the same token the longest wins, so
// "day after tomorrow" beats "tomorrow".
func (m *matcher) temporalOffset(tokens []string) *int {
	for i := range tokens {
		best := -1
		offset := 0
		for _, tp := range m.temporal {
			if len(tp.phrase) > best && tp.phrase.matchAt(tokens, i) {
				best = len(tp.phrase)
				offset = tp.offset
			}
		}
		if best > 0 {
			return &offset
		}
	}
	return nil
}

// relativeOffset resolves a standalone relative-day phrase such as
// "tomorrow" or "agle hafte".
func (m *matcher) relativeOffset(s string) (int, bool) {
	tokens := tokenize(s)
	if len(tokens) == 0 {
		return 0, false
	}
	for _, tp := range m.temporal {
		if len(tp.phrase) == len(tokens) && tp.phrase.matchAt(tokens, 0) {
			return tp.offset, true
		}
	}
	return 0, false
}
