package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Entry is the metadata recorded for one plugin
type Entry struct {
	Module      string `json:"module"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	Repo        string `json:"repo"`
}

// Item is a key and its entry, as yielded by Registry.Items
type Item struct {
	Key   string
	Entry Entry
}

// Registry is an insertion-ordered mapping of plugin key to Entry.
// Rewriting a key keeps its original position so diffs of the serialized
// document stay small.
type Registry struct {
	keys    []string
	entries map[string]Entry
}

// New returns an empty registry
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Parse decodes a registry document. The document must be a JSON object
// whose values match the registry schema.
func Parse(data []byte) (*Registry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	if err := validate(data); err != nil {
		return nil, err
	}

	reg := New()
	var decodeErr error
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		var entry Entry
		if err := json.Unmarshal([]byte(value.Raw), &entry); err != nil {
			decodeErr = fmt.Errorf("entry %q: %w", key.String(), err)
			return false
		}
		reg.Set(key.String(), entry)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return reg, nil
}

// Set inserts or replaces the entry stored under key
func (r *Registry) Set(key string, entry Entry) {
	if _, ok := r.entries[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.entries[key] = entry
}

// Get returns the entry stored under key
func (r *Registry) Get(key string) (Entry, bool) {
	entry, ok := r.entries[key]
	return entry, ok
}

// Len returns the number of entries
func (r *Registry) Len() int {
	return len(r.keys)
}

// Keys returns the keys in insertion order
func (r *Registry) Keys() []string {
	return slices.Clone(r.keys)
}

// Items returns all entries in insertion order
func (r *Registry) Items() []Item {
	items := make([]Item, 0, len(r.keys))
	for _, key := range r.keys {
		items = append(items, Item{Key: key, Entry: r.entries[key]})
	}
	return items
}

// Clone returns an independent copy of r
func (r *Registry) Clone() *Registry {
	c := &Registry{
		keys:    slices.Clone(r.keys),
		entries: make(map[string]Entry, len(r.entries)),
	}
	for k, v := range r.entries {
		c.entries[k] = v
	}
	return c
}

// MarshalJSON writes the registry as a compact JSON object in insertion order
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(r.entries[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Encode renders the registry the way it is stored on disk: indented with
// four spaces, non-ASCII text kept literal, newline terminated.
func (r *Registry) Encode() ([]byte, error) {
	compact, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(compact, &pretty.Options{Indent: "    "}), nil
}
