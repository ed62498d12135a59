package extraction

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// ErrInvalidLexicon is returned when a lexicon file cannot be used.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// TemporalMarker maps relative-day phrases to an offset in days from the send time.
type TemporalMarker struct {
	Offset  int      `yaml:"offset"`
	Phrases []string `yaml:"phrases"`
}

// TableEntry maps trigger phrases to a canonical task title and category.
type TableEntry struct {
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Triggers []string `yaml:"triggers"`
}

// Lexicon holds the keyword data driving detection, normalization and fallback.
// Table order matters: the first entry whose trigger matches wins.
type Lexicon struct {
	Indicators []string         `yaml:"indicators"`
	Urgency    []string         `yaml:"urgency"`
	Temporal   []TemporalMarker `yaml:"temporal"`
	Filler     []string         `yaml:"filler"`
	Table      []TableEntry     `yaml:"table"`
}

// DefaultLexicon returns the embedded lexicon.
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexiconYAML)
	if err != nil {
		// The embedded file is covered by tests.
		panic(fmt.Sprintf("embedded lexicon: %v", err))
	}
	return lex
}

// LoadLexicon reads a lexicon from path. An empty path returns DefaultLexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidLexicon, path, err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates YAML lexicon data.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	if err := lex.validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

func (l *Lexicon) validate() error {
	for i, entry := range l.Table {
		if strings.TrimSpace(entry.Title) == "" {
			return fmt.Errorf("%w: table entry %d has no title", ErrInvalidLexicon, i)
		}
		if len(entry.Triggers) == 0 {
			return fmt.Errorf("%w: table entry %q has no triggers", ErrInvalidLexicon, entry.Title)
		}
	}

	for _, marker := range l.Temporal {
		if marker.Offset < 0 {
			return fmt.Errorf("%w: temporal offset %d is negative", ErrInvalidLexicon, marker.Offset)
		}
	}

	return nil
}
