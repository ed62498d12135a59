package extraction

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
	"time"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("extract").Parse(promptSource))

// promptData represents the data passed to the prompt template
type promptData struct {
	Message        string
	Today          string
	Weekday        string
	TitleWordLimit int
}

func renderPrompt(message string, now time.Time, titleWordLimit int) (string, error) {
	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptData{
		Message:        message,
		Today:          now.Format(time.DateOnly),
		Weekday:        now.Weekday().String(),
		TitleWordLimit: titleWordLimit,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
