// Package registry maintains plugins.json, the mapping of plugin key to the
// metadata rendered into the plugin listing.
//
// A Registry keeps insertion order so that rewriting the document only
// changes the lines of the entry that was touched. Store loads and saves the
// document through an afero filesystem:
//
//	store := registry.NewStore(afero.NewOsFs(), "plugins.json")
//	reg, err := store.Upsert(ctx, "muicebot-plugin-weather", registry.Entry{
//	    Module:      "weather",
//	    Name:        "Weather",
//	    Description: "Reports the weather",
//	    Repo:        "https://github.com/example/muicebot-plugin-weather",
//	})
//
// A missing document is the bootstrap case and loads as an empty registry.
// A document that is not JSON, or whose entries do not match the embedded
// schema, is reported as ErrCorruptRegistry and is never overwritten.
package registry
