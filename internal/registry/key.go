package registry

import "fmt"

// KeyPolicy selects which submission field keys the registry
type KeyPolicy string

const (
	// KeyByProject keys entries by the project directory name and records
	// the display name inside the entry
	KeyByProject KeyPolicy = "project"

	// KeyByName keys entries by the display name; entries carry no name field
	KeyByName KeyPolicy = "name"
)

// Validate reports whether p is a known policy
func (p KeyPolicy) Validate() error {
	switch p {
	case KeyByProject, KeyByName:
		return nil
	default:
		return fmt.Errorf("unknown registry key policy %q (want %s or %s)", p, KeyByProject, KeyByName)
	}
}

// Keyed returns the registry key and entry for a plugin under policy p
func (p KeyPolicy) Keyed(project, name string, entry Entry) (string, Entry) {
	if p == KeyByName {
		entry.Name = ""
		return name, entry
	}
	entry.Name = name
	return project, entry
}
