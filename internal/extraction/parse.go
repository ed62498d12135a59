package extraction

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var errNoTaskArray = errors.New("no JSON array of tasks in response")

// fencedBlock matches a ``` or ```json code fence.
var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// rawTask is one element of the model's JSON array.
type rawTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

// parseTasks finds the task array in model output. The model may wrap it in
// prose or a code fence, so a fenced block is tried first and then every '['
// in order until one decodes as an array of objects.
func parseTasks(text string) ([]rawTask, error) {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if tasks, ok := decodeArrayAt(m[1]); ok {
			return tasks, nil
		}
	}

	for i := strings.IndexByte(text, '['); i >= 0; {
		if tasks, ok := decodeArrayAt(text[i:]); ok {
			return tasks, nil
		}
		next := strings.IndexByte(text[i+1:], '[')
		if next < 0 {
			break
		}
		i += next + 1
	}

	return nil, errNoTaskArray
}

// decodeArrayAt decodes the first JSON value in s, which must be an array
// of objects. Trailing text is ignored.
func decodeArrayAt(s string) ([]rawTask, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return nil, false
	}

	var tasks []rawTask
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&tasks); err != nil {
		return nil, false
	}
	return tasks, true
}
