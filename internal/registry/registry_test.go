package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesOrder(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"zeta": {"module": "z", "description": "last letter", "repo": "https://example/z"},
		"alpha": {"module": "a", "name": "Alpha", "description": "first letter", "repo": "https://example/a"},
		"mid": {"module": "m", "description": "middle", "repo": "https://example/m"}
	}`)

	reg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, reg.Keys())

	alpha, ok := reg.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, Entry{Module: "a", Name: "Alpha", Description: "first letter", Repo: "https://example/a"}, alpha)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{"a":`},
		{name: "empty document", data: ``},
		{name: "array", data: `[]`},
		{name: "entry is a string", data: `{"a": "b"}`},
		{name: "missing repo", data: `{"a": {"module": "m", "description": "d"}}`},
		{name: "unknown field", data: `{"a": {"module": "m", "description": "d", "repo": "r", "stars": 3}}`},
		{name: "wrong type", data: `{"a": {"module": 1, "description": "d", "repo": "r"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg, err := Parse([]byte(tt.data))
			assert.Error(t, err)
			assert.Nil(t, reg)
		})
	}
}

func TestRegistry_SetKeepsPosition(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Set("a", Entry{Module: "a1"})
	reg.Set("b", Entry{Module: "b1"})
	reg.Set("a", Entry{Module: "a2"})

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"a", "b"}, reg.Keys())
	assert.Equal(t, []Item{
		{Key: "a", Entry: Entry{Module: "a2"}},
		{Key: "b", Entry: Entry{Module: "b1"}},
	}, reg.Items())
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Set("a", Entry{Module: "a"})

	c := reg.Clone()
	c.Set("b", Entry{Module: "b"})
	c.Set("a", Entry{Module: "changed"})

	assert.Equal(t, 1, reg.Len())
	a, _ := reg.Get("a")
	assert.Equal(t, "a", a.Module)
}

func TestRegistry_Encode(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Set("Foo", Entry{
		Module:      "foo.plugin",
		Name:        "天气",
		Description: "Does X & <Y>",
		Repo:        "https://example/foo",
	})

	data, err := reg.Encode()
	require.NoError(t, err)

	expected := `{
    "Foo": {
        "module": "foo.plugin",
        "name": "天气",
        "description": "Does X & <Y>",
        "repo": "https://example/foo"
    }
}
`
	assert.Equal(t, expected, string(data))

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, reg.Items(), back.Items())
}

func TestRegistry_EncodeEmpty(t *testing.T) {
	t.Parallel()

	data, err := New().Encode()
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestKeyPolicy(t *testing.T) {
	t.Parallel()

	entry := Entry{Module: "m", Description: "d", Repo: "r"}

	key, e := KeyByProject.Keyed("proj", "Name", entry)
	assert.Equal(t, "proj", key)
	assert.Equal(t, "Name", e.Name)

	key, e = KeyByName.Keyed("proj", "Name", entry)
	assert.Equal(t, "Name", key)
	assert.Empty(t, e.Name)

	require.NoError(t, KeyByProject.Validate())
	require.NoError(t, KeyByName.Validate())
	assert.Error(t, KeyPolicy("slug").Validate())
}
