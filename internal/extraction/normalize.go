package extraction

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/taskmate-api/internal/domain"
)

// titleNormalizer strips filler words, caps the word count and title-cases.
type titleNormalizer struct {
	// filler phrases as lowercase words, longest first
	filler    [][]string
	wordLimit int
}

func newTitleNormalizer(filler []string, wordLimit int) *titleNormalizer {
	phrases := make([][]string, 0, len(filler))
	for _, f := range filler {
		if words := strings.Fields(strings.ToLower(f)); len(words) > 0 {
			phrases = append(phrases, words)
		}
	}
	sort.SliceStable(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })

	return &titleNormalizer{filler: phrases, wordLimit: wordLimit}
}

// normalize returns the cleaned title, or "" when nothing is left.
func (n *titleNormalizer) normalize(title string) string {
	var words []string
	for _, w := range strings.Fields(title) {
		if w = strings.TrimFunc(w, isEdgePunct); w != "" {
			words = append(words, w)
		}
	}

	kept := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if skip := n.fillerAt(words, i); skip > 0 {
			i += skip
			continue
		}
		kept = append(kept, titleCase(words[i]))
		i++
	}

	if n.wordLimit > 0 && len(kept) > n.wordLimit {
		kept = kept[:n.wordLimit]
	}
	return strings.Join(kept, " ")
}

// fillerAt returns how many words a filler phrase covers at position i.
func (n *titleNormalizer) fillerAt(words []string, i int) int {
	for _, phrase := range n.filler {
		if i+len(phrase) > len(words) {
			continue
		}
		matched := true
		for j, fw := range phrase {
			if strings.ToLower(words[i+j]) != fw {
				matched = false
				break
			}
		}
		if matched {
			return len(phrase)
		}
	}
	return 0
}

func isEdgePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// titleCase upper-cases the first letter and lower-cases the rest.
// All-caps words such as "ATM" are kept as written.
func titleCase(word string) string {
	if isAllUpper(word) && utf8.RuneCountInString(word) > 1 {
		return word
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToTitle(r)) + strings.ToLower(word[size:])
}

func isAllUpper(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}

// startOfDay returns midnight of the day offset days after now, in now's location.
func startOfDay(now time.Time, offset int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, now.Location())
}

// resolveDeadline picks the due date for an extracted task. A temporal marker
// found in the user's own message wins over whatever the model returned;
// otherwise the model's value is parsed as a relative phrase, a date or an
// RFC 3339 timestamp. Unparseable values yield nil.
func (m *matcher) resolveDeadline(local *int, modelValue string, now time.Time) *time.Time {
	if local != nil {
		due := startOfDay(now, *local)
		return &due
	}

	modelValue = strings.TrimSpace(modelValue)
	if modelValue == "" {
		return nil
	}

	if offset, ok := m.relativeOffset(modelValue); ok {
		due := startOfDay(now, offset)
		return &due
	}

	if d, err := time.ParseInLocation(time.DateOnly, modelValue, now.Location()); err == nil {
		return &d
	}

	if ts, err := time.Parse(time.RFC3339, modelValue); err == nil {
		return &ts
	}

	return nil
}

// resolvePriority parses the model's priority, defaulting to Medium. Urgency
// in the user's message raises the result to at least High.
func resolvePriority(modelValue string, urgent bool) domain.Priority {
	priority, err := domain.ParsePriority(modelValue)
	if err != nil {
		priority = domain.PriorityMedium
	}
	if urgent && priority.Rank() < domain.PriorityHigh.Rank() {
		priority = domain.PriorityHigh
	}
	return priority
}
