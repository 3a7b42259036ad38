package issue

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	headingPrefix = "### "
	codeFence     = "```"

	// noResponse is what GitHub issue forms render for an unanswered input
	noResponse = "_No response_"
)

// section is one "### label" heading and the text below it
type section struct {
	label string
	body  string
}

// parseSections splits body into level-3 heading sections. Text before the
// first heading is dropped. Headings inside fenced code blocks are ignored.
func parseSections(body string) []section {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var (
		sections []section
		current  *section
		lines    []string
		inFence  bool
	)

	flush := func() {
		if current != nil {
			current.body = strings.TrimSpace(strings.Join(lines, "\n"))
			sections = append(sections, *current)
		}
		lines = lines[:0]
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " "), codeFence) {
			inFence = !inFence
		}
		if !inFence && strings.HasPrefix(line, headingPrefix) {
			flush()
			current = &section{label: strings.TrimSpace(strings.TrimPrefix(line, headingPrefix))}
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return sections
}

// lookup returns the first non-empty section body filed under any of labels
func lookup(sections []section, labels []string) string {
	for _, label := range labels {
		for _, s := range sections {
			if s.label != label {
				continue
			}
			if v := normalize(s.body); v != "" {
				return v
			}
		}
	}
	return ""
}

func normalize(value string) string {
	value = strings.TrimSpace(value)
	if value == noResponse {
		return ""
	}
	return value
}

// fencedBlock returns the trimmed inner text of the first fenced code block
// in text, or "" when there is none. An unterminated fence runs to the end.
func fencedBlock(text string) string {
	var (
		inner []string
		open  bool
	)
	for _, line := range strings.Split(text, "\n") {
		fence := strings.HasPrefix(strings.TrimLeft(line, " "), codeFence)
		switch {
		case !open && fence:
			open = true
		case open && fence:
			return strings.TrimSpace(strings.Join(inner, "\n"))
		case open:
			inner = append(inner, line)
		}
	}
	return strings.TrimSpace(strings.Join(inner, "\n"))
}

// Extract parses an issue body into a Submission.
//
// Every required field must be present under one of its labels with
// non-empty text, otherwise a *MalformedSubmissionError naming all missing
// fields is returned and no Submission is built.
func Extract(body string, fields Fields) (*Submission, error) {
	fields = fields.WithDefaults()
	if err := fields.Policy.Validate(); err != nil {
		return nil, err
	}

	sections := parseSections(body)

	sub := Submission{
		Name:        lookup(sections, fields.Name),
		Module:      lookup(sections, fields.Module),
		Description: lookup(sections, fields.Description),
		Repo:        lookup(sections, fields.Repo),
		Project:     lookup(sections, fields.Project),
		Config:      fencedBlock(lookupRaw(sections, fields.Config)),
	}

	var missing []string
	require := func(value, field string, labels []string) {
		if value == "" {
			missing = append(missing, fmt.Sprintf("%s (### %s)", field, labels[0]))
		}
	}

	require(sub.Name, "name", fields.Name)

	switch fields.Policy {
	case ProjectRequire:
		sub.Project = dirName(sub.Project)
		require(sub.Project, "project", fields.Project)
	case ProjectDerive:
		if sub.Project != "" {
			sub.Project = dirName(sub.Project)
			require(sub.Project, "project", fields.Project)
		} else if sub.Name != "" {
			sub.Project = Slugify(sub.Name)
			require(sub.Project, "project", fields.Project)
		}
	case ProjectFromName:
		sub.Project = dirName(sub.Name)
		if sub.Project == "" && sub.Name != "" {
			sub.Project = Slugify(sub.Name)
			require(sub.Project, "project", fields.Project)
		}
	}

	require(sub.Module, "module", fields.Module)
	require(sub.Description, "description", fields.Description)
	require(sub.Repo, "repo", fields.Repo)

	if len(missing) > 0 {
		return nil, &MalformedSubmissionError{Missing: missing}
	}

	return &sub, nil
}

// dirName returns project when it is usable as a single directory name
// inside the plugins directory, and "" otherwise
func dirName(project string) string {
	if project == "." || strings.ContainsAny(project, "/\\\r\n") || !filepath.IsLocal(project) {
		return ""
	}
	return project
}

// lookupRaw is lookup without the "_No response_" normalisation, for
// sections whose content is parsed further.
func lookupRaw(sections []section, labels []string) string {
	for _, label := range labels {
		for _, s := range sections {
			if s.label == label && s.body != "" {
				return s.body
			}
		}
	}
	return ""
}
