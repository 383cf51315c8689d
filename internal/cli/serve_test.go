package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/store"
)

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		c := New(io.Discard, log.InfoLevel)
		st, err := c.newStore(ctx)
		if err != nil {
			t.Fatal(err)
		}
		defer st.Close()
		if _, ok := st.(*store.MemoryStore); !ok {
			t.Errorf("newStore() = %T, want *store.MemoryStore", st)
		}
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		c := New(io.Discard, log.InfoLevel)
		c.config.Server.Store = config.StoreFile
		c.config.Server.StoreDir = dir

		st, err := c.newStore(ctx)
		if err != nil {
			t.Fatal(err)
		}
		defer st.Close()
		fs, ok := st.(*store.FileStore)
		if !ok {
			t.Fatalf("newStore() = %T, want *store.FileStore", st)
		}
		if fs.Path() != dir {
			t.Errorf("Path() = %q, want %q", fs.Path(), dir)
		}

		rec := store.NewRecord("hash", graph.Layout{Focal: "me"})
		if err := st.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := st.Get(ctx, rec.ID)
		if err != nil || got.Layout.Focal != "me" {
			t.Errorf("Get() = %+v, %v", got, err)
		}
	})
}

func TestNewAPIRunnerScopesKeys(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	r, err := c.newAPIRunner(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	opts := cache.LayoutKeyOpts{Seed: 1}
	key := r.Keyer.LayoutKey("abc", opts)
	if !strings.HasPrefix(key, apiKeyPrefix) {
		t.Errorf("LayoutKey() = %q, want prefix %q", key, apiKeyPrefix)
	}
	if plain := cache.NewDefaultKeyer().LayoutKey("abc", opts); key == plain {
		t.Error("API keys should differ from CLI keys")
	}
}
