package issue

import "fmt"

// ProjectPolicy decides where the clone directory name comes from
type ProjectPolicy string

const (
	// ProjectRequire demands an explicit project heading in the issue
	ProjectRequire ProjectPolicy = "require"

	// ProjectDerive uses the project heading when present and otherwise
	// derives a slug from the display name
	ProjectDerive ProjectPolicy = "derive"

	// ProjectFromName always uses the display name verbatim
	ProjectFromName ProjectPolicy = "name"
)

// Validate reports whether p is a known policy
func (p ProjectPolicy) Validate() error {
	switch p {
	case ProjectRequire, ProjectDerive, ProjectFromName:
		return nil
	default:
		return fmt.Errorf("unknown project policy %q (want %s, %s or %s)", p, ProjectRequire, ProjectDerive, ProjectFromName)
	}
}

// Submission is the structured form of one plugin-submission issue.
// It is built once by Extract and never modified afterwards.
type Submission struct {
	// Name is the human readable plugin name
	Name string `json:"name"`

	// Project is the directory name the repository is cloned into
	Project string `json:"project"`

	// Module is the import path of the plugin relative to its project directory
	Module string `json:"module"`

	// Description is a one line summary of the plugin
	Description string `json:"description"`

	// Repo is the URL of the plugin's source repository
	Repo string `json:"repo"`

	// Config is an optional block of environment variables to append to the host env file
	Config string `json:"config,omitempty"`
}

// Fields lists the heading labels accepted for every submission field.
// Labels are tried in order; the first one with a non-empty section wins.
type Fields struct {
	Name        []string      `yaml:"name"`
	Project     []string      `yaml:"project"`
	Module      []string      `yaml:"module"`
	Description []string      `yaml:"description"`
	Repo        []string      `yaml:"repo"`
	Config      []string      `yaml:"config"`
	Policy      ProjectPolicy `yaml:"projectPolicy"`
}

// DefaultFields returns the labels used by the plugin submission issue form
func DefaultFields() Fields {
	return Fields{
		Name:        []string{"插件名", "名称"},
		Project:     []string{"插件项目名"},
		Module:      []string{"插件模块名"},
		Description: []string{"插件描述"},
		Repo:        []string{"项目链接"},
		Config:      []string{"插件配置"},
		Policy:      ProjectDerive,
	}
}

// WithDefaults fills every empty label list and policy from DefaultFields
func (f Fields) WithDefaults() Fields {
	d := DefaultFields()
	if len(f.Name) == 0 {
		f.Name = d.Name
	}
	if len(f.Project) == 0 {
		f.Project = d.Project
	}
	if len(f.Module) == 0 {
		f.Module = d.Module
	}
	if len(f.Description) == 0 {
		f.Description = d.Description
	}
	if len(f.Repo) == 0 {
		f.Repo = d.Repo
	}
	if len(f.Config) == 0 {
		f.Config = d.Config
	}
	if f.Policy == "" {
		f.Policy = d.Policy
	}
	return f
}
