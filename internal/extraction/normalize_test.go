package extraction

import (
	"testing"
	"time"

	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	n := newTitleNormalizer(DefaultLexicon().Filler, 4)

	testCases := map[string]string{
		"please buy milk":                     "Buy Milk",
		"Remind me to call the bank, please!": "Call The Bank",
		"bhai car service karna hai":          "Car Service",
		"pay ATM fee":                         "Pay ATM Fee",
		"one two three four five six":         "One Two Three Four",
		"  please  ":                          "",
		"don't forget to water the garden":    "Water The Garden",
		"دودھ لانا":                           "دودھ لانا",
	}

	for input, want := range testCases {
		assert.Equal(t, want, n.normalize(input), input)
	}
}

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	pkt := time.FixedZone("PKT", 5*3600)
	now := time.Date(2024, 12, 31, 23, 30, 0, 0, pkt)

	got := startOfDay(now, 1)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, pkt), got)
	assert.Equal(t, pkt, got.Location())
}

func TestResolvePriority(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.PriorityMedium, resolvePriority("", false))
	assert.Equal(t, domain.PriorityMedium, resolvePriority("critical", false))
	assert.Equal(t, domain.PriorityLow, resolvePriority("LOW", false))
	assert.Equal(t, domain.PriorityHigh, resolvePriority("low", true))
	assert.Equal(t, domain.PriorityUrgent, resolvePriority("urgent", true))
}
