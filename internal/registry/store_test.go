package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testRegistryPath = "/repo/plugins.json"

func testEntry(id string) Entry {
	return Entry{
		Module:      id + ".plugin",
		Name:        "Plugin " + id,
		Description: "Description of " + id,
		Repo:        "https://example.com/" + id,
	}
}

func TestStore_UpsertMissingFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewStore(fs, testRegistryPath)

	reg, err := store.Upsert(context.Background(), "Foo", testEntry("foo"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo"}, reg.Keys())

	data, err := afero.ReadFile(fs, testRegistryPath)
	require.NoError(t, err)
	loaded, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	got, _ := loaded.Get("Foo")
	assert.Equal(t, testEntry("foo"), got)

	exists, err := afero.Exists(fs, testRegistryPath+".tmp")
	require.NoError(t, err)
	assert.False(t, exists, "temporary file must not survive a successful save")
}

func TestStore_UpsertOverwritesOnlyKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := NewStore(fs, testRegistryPath)

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.Upsert(ctx, id, testEntry(id))
		require.NoError(t, err)
	}

	updated := testEntry("b2")
	reg, err := store.Upsert(ctx, "b", updated)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, reg.Keys())
	b, _ := reg.Get("b")
	assert.Equal(t, updated, b)
	a, _ := reg.Get("a")
	assert.Equal(t, testEntry("a"), a)
	c, _ := reg.Get("c")
	assert.Equal(t, testEntry("c"), c)
}

func TestStore_UpsertCorruptFileIsUntouched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{ this is not json"},
		{name: "schema violation", content: `{"a": {"module": "m"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, testRegistryPath, []byte(tt.content), 0644))
			store := NewStore(fs, testRegistryPath)

			reg, err := store.Upsert(context.Background(), "Foo", testEntry("foo"))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptRegistry)
			assert.Nil(t, reg)

			data, err := afero.ReadFile(fs, testRegistryPath)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestStore_UpsertPersistFailure(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	original := []byte(`{"a": {"module": "m", "description": "d", "repo": "r"}}`)
	require.NoError(t, afero.WriteFile(base, testRegistryPath, original, 0644))

	store := NewStore(afero.NewReadOnlyFs(base), testRegistryPath)

	reg, err := store.Upsert(context.Background(), "Foo", testEntry("foo"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptRegistry)
	assert.Nil(t, reg)

	data, err := afero.ReadFile(base, testRegistryPath)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestStore_UpsertEmptyKey(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), testRegistryPath)
	_, err := store.Upsert(context.Background(), "", testEntry("foo"))
	assert.Error(t, err)
}

func TestStore_LoadMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), testRegistryPath)
	reg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestStore_SaveRelativePath(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	store := NewStore(fs, FileName)
	require.Equal(t, FileName, store.Path())

	reg := New()
	reg.Set("k", testEntry("k"))
	require.NoError(t, store.Save(context.Background(), reg))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reg.Items(), loaded.Items())
}

func drawEntry(t *rapid.T, label string) Entry {
	text := rapid.StringMatching(`[a-zA-Z0-9 插件描述<>&"\\/.-]{1,20}`)
	return Entry{
		Module:      text.Draw(t, label+".module"),
		Name:        rapid.SampledFrom([]string{"", "Name", "名称"}).Draw(t, label+".name"),
		Description: text.Draw(t, label+".description"),
		Repo:        text.Draw(t, label+".repo"),
	}
}

func TestStore_PropertyUpsertIdempotent(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		fs := afero.NewMemMapFs()
		store := NewStore(fs, testRegistryPath)

		existing := rapid.IntRange(0, 4).Draw(t, "existing")
		for i := 0; i < existing; i++ {
			_, err := store.Upsert(ctx, fmt.Sprintf("seed-%d", i), drawEntry(t, fmt.Sprintf("seed%d", i)))
			require.NoError(t, err)
		}

		key := rapid.SampledFrom([]string{"seed-0", "new", "插件"}).Draw(t, "key")
		entry := drawEntry(t, "entry")

		_, err := store.Upsert(ctx, key, entry)
		require.NoError(t, err)
		once, err := afero.ReadFile(fs, testRegistryPath)
		require.NoError(t, err)

		_, err = store.Upsert(ctx, key, entry)
		require.NoError(t, err)
		twice, err := afero.ReadFile(fs, testRegistryPath)
		require.NoError(t, err)

		assert.Equal(t, string(once), string(twice))
	})
}

func TestStore_PropertyOtherKeysUnchanged(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := NewStore(afero.NewMemMapFs(), testRegistryPath)

		count := rapid.IntRange(1, 6).Draw(t, "count")
		var before *Registry
		for i := 0; i < count; i++ {
			var err error
			before, err = store.Upsert(ctx, fmt.Sprintf("k%d", i), drawEntry(t, fmt.Sprintf("k%d", i)))
			require.NoError(t, err)
		}

		target := fmt.Sprintf("k%d", rapid.IntRange(0, count-1).Draw(t, "target"))
		after, err := store.Upsert(ctx, target, drawEntry(t, "replacement"))
		require.NoError(t, err)

		assert.Equal(t, before.Keys(), after.Keys())
		for _, key := range before.Keys() {
			if key == target {
				continue
			}
			b, _ := before.Get(key)
			a, _ := after.Get(key)
			assert.Equal(t, b, a, "entry %s changed", key)
		}
	})
}
