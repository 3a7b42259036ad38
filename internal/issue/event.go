package issue

import (
	"fmt"
	"slices"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Gate describes which events count as plugin submissions
type Gate struct {
	// Events are the accepted GitHub event names
	Events []string `yaml:"events"`

	// Label is the issue label that marks a plugin submission
	Label string `yaml:"label"`
}

// DefaultGate accepts opened or commented issues labelled "Plugin"
func DefaultGate() Gate {
	return Gate{
		Events: []string{"issues", "issue_comment"},
		Label:  "Plugin",
	}
}

// Event identifies the workflow trigger
type Event struct {
	// Name is the GitHub event name (GITHUB_EVENT_NAME)
	Name string

	// Path is the location of the event payload (GITHUB_EVENT_PATH)
	Path string
}

// ReadIssueBody loads the event payload and returns the issue body when the
// event is an open, labelled plugin-submission issue.
//
// A *SkipError is returned when the event is not actionable. Any other error
// means the payload itself could not be read or understood.
func ReadIssueBody(fs afero.Fs, event Event, gate Gate) (string, error) {
	if event.Path == "" {
		return "", skipf("event payload path is not set")
	}
	if !slices.Contains(gate.Events, event.Name) {
		return "", skipf("unsupported event %q", event.Name)
	}

	data, err := afero.ReadFile(fs, event.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read event payload %s: %w", event.Path, err)
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("event payload %s is not valid JSON", event.Path)
	}

	issue := gjson.GetBytes(data, "issue")
	if !issue.IsObject() {
		return "", fmt.Errorf("event payload %s has no issue object", event.Path)
	}

	if truthy(issue.Get("pull_request")) {
		return "", skipf("comment belongs to a pull request")
	}
	if state := issue.Get("state").String(); state != "open" {
		return "", skipf("issue is %q, not open", state)
	}

	labelled := false
	for _, name := range issue.Get("labels.#.name").Array() {
		if name.String() == gate.Label {
			labelled = true
			break
		}
	}
	if !labelled {
		return "", skipf("issue is not labelled %q", gate.Label)
	}

	return issue.Get("body").String(), nil
}

// truthy reports whether r holds a value other than null, false, zero or an
// empty string, array or object.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	default:
		return true
	}
}
