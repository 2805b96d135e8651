package searchcache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type result struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestNew(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c, err := New(t.TempDir())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if c == nil {
			t.Error("expected Cache instance, got nil")
		}
	})

	t.Run("empty folder path", func(t *testing.T) {
		c, err := New("")
		if err == nil {
			t.Error("expected error for empty path, got nil")
		}
		if c != nil {
			t.Error("expected nil Cache for empty path")
		}
	})

	t.Run("nonexistent folder creation", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "search")

		if _, err := New(dir); err != nil {
			t.Fatalf("expected folder to be created, got error: %v", err)
		}

		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Error("folder was not created")
		}
	})
}

func TestSaveLoad(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("round trip", func(t *testing.T) {
		in := []result{{ID: 1, Name: "Chrono Trigger"}, {ID: 2, Name: "Earthbound"}}
		if err := c.Save(ResultsKey, in); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var out []result
		if err := c.Load(ResultsKey, &out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out) != 2 || out[0].Name != "Chrono Trigger" {
			t.Errorf("unexpected entry: %+v", out)
		}
	})

	t.Run("save replaces previous results", func(t *testing.T) {
		if err := c.Save(ResultsKey, []result{{ID: 3, Name: "Okami"}}); err != nil {
			t.Fatal(err)
		}

		var out []result
		if err := c.Load(ResultsKey, &out); err != nil {
			t.Fatal(err)
		}
		if len(out) != 1 || out[0].ID != 3 {
			t.Errorf("expected replaced entry, got %+v", out)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		var out []result
		if err := c.Load("unknown", &out); err != ErrNotExists {
			t.Errorf("expected ErrNotExists, got %v", err)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		if err := c.Save("../escape", 1); err != ErrInvalidKey {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
		if err := c.Save("", 1); err != ErrInvalidKey {
			t.Errorf("expected ErrInvalidKey, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Save("k", "v"); err != nil {
		t.Fatal(err)
	}

	if err := c.Delete("k"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := c.Delete("k"); err != ErrNotExists {
		t.Errorf("expected ErrNotExists, got %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if err := c.Save(VisitorKey("v1"), []result{{ID: int64(i)}}); err != nil {
				t.Errorf("save: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			var out []result
			if err := c.Load(VisitorKey("v1"), &out); err != nil && err != ErrNotExists {
				t.Errorf("load: %v", err)
			}
		}()
	}
	wg.Wait()

	var out []result
	if err := c.Load(VisitorKey("v1"), &out); err != nil {
		t.Fatalf("expected final entry, got %v", err)
	}
	if len(out) != 1 {
		t.Errorf("expected one result, got %d", len(out))
	}
}

func age(t *testing.T, c *Cache, key string, by time.Duration) {
	t.Helper()

	stamp := time.Now().Add(-by)
	if err := os.Chtimes(filepath.Join(c.folderPath, key+".json"), stamp, stamp); err != nil {
		t.Fatal(err)
	}
}

func TestPrune(t *testing.T) {
	t.Run("expired entries are evicted", func(t *testing.T) {
		c, err := New(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		for _, key := range []string{"old", "fresh"} {
			if err := c.Save(key, result{ID: 1}); err != nil {
				t.Fatal(err)
			}
		}
		age(t, c, "old", 48*time.Hour)

		removed, err := c.Prune(24*time.Hour, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if removed != 1 {
			t.Errorf("expected 1 removed entry, got %d", removed)
		}

		var out result
		if err := c.Load("old", &out); !errors.Is(err, ErrNotExists) {
			t.Errorf("expected ErrNotExists for expired entry, got %v", err)
		}
		if err := c.Load("fresh", &out); err != nil {
			t.Errorf("expected fresh entry to survive, got %v", err)
		}
	})

	t.Run("oldest entries go first over the cap", func(t *testing.T) {
		c, err := New(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		keys := []string{"a", "b", "c", "d"}
		for i, key := range keys {
			if err := c.Save(key, result{ID: int64(i)}); err != nil {
				t.Fatal(err)
			}
			age(t, c, key, time.Duration(len(keys)-i)*time.Minute)
		}

		removed, err := c.Prune(time.Hour, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if removed != 2 {
			t.Errorf("expected 2 removed entries, got %d", removed)
		}

		var out result
		for _, key := range []string{"a", "b"} {
			if err := c.Load(key, &out); !errors.Is(err, ErrNotExists) {
				t.Errorf("expected %q to be evicted, got %v", key, err)
			}
		}
		for _, key := range []string{"c", "d"} {
			if err := c.Load(key, &out); err != nil {
				t.Errorf("expected %q to survive, got %v", key, err)
			}
		}
	})

	t.Run("unrelated files are left alone", func(t *testing.T) {
		c, err := New(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}

		other := filepath.Join(c.folderPath, "notes.txt")
		if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		stamp := time.Now().Add(-72 * time.Hour)
		if err := os.Chtimes(other, stamp, stamp); err != nil {
			t.Fatal(err)
		}

		if _, err := c.Prune(time.Hour, 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(other); err != nil {
			t.Errorf("expected unrelated file to remain, got %v", err)
		}
	})
}

func TestRunPruner(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Save("stale", result{ID: 1}); err != nil {
		t.Fatal(err)
	}
	age(t, c, "stale", 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunPruner(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour, time.Hour, 0)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		var out result
		if err := c.Load("stale", &out); errors.Is(err, ErrNotExists) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected stale entry to be pruned at startup")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected pruner to stop after cancel")
	}
}
