package searchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ResultsKey is the fixed key the most recent catalog search is stored under.
const ResultsKey = "searchResults"

var (
	ErrInvalidKey = errors.New("invalid key")
	ErrNotExists  = errors.New("entry does not exist")
)

type Store interface {
	Save(key string, v any) error
	Load(key string, v any) error
	Delete(key string) error
}

// Cache keeps one JSON document per key inside a folder.
type Cache struct {
	folderPath string
	mu         sync.RWMutex
}

func New(folderPath string) (*Cache, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	folderPath = filepath.Clean(folderPath) + string(filepath.Separator)

	c := &Cache{folderPath: folderPath}

	if err := c.ensureFolderExists(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Cache) ensureFolderExists() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(c.folderPath, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(c.folderPath, key+".json"), nil
}

// Save replaces the document stored under key.
func (c *Cache) Save(key string, v any) error {
	fullPath, err := c.path(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tempPath := fullPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write entry: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func (c *Cache) Load(key string, v any) error {
	fullPath, err := c.path(key)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return ErrNotExists
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

func (c *Cache) Delete(key string) error {
	fullPath, err := c.path(key)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return ErrNotExists
	}

	return os.Remove(fullPath)
}

// Prune removes entries last written more than maxAge ago and then, oldest
// first, as many as needed to keep at most maxEntries. A zero limit is not
// enforced. It returns how many entries were removed.
func (c *Cache) Prune(maxAge time.Duration, maxEntries int) (int, error) {
	type entry struct {
		path    string
		modTime time.Time
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dirEntries, err := os.ReadDir(c.folderPath)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	kept := make([]entry, 0, len(dirEntries))

	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}

		fullPath := filepath.Join(c.folderPath, de.Name())
		if maxAge > 0 && info.ModTime().Before(cutoff) {
			if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
				return removed, err
			}
			removed++
			continue
		}
		kept = append(kept, entry{path: fullPath, modTime: info.ModTime()})
	}

	if maxEntries <= 0 || len(kept) <= maxEntries {
		return removed, nil
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].modTime.Before(kept[j].modTime) })
	for _, e := range kept[:len(kept)-maxEntries] {
		if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// RunPruner prunes once and then every interval until ctx is done.
func (c *Cache) RunPruner(ctx context.Context, log *slog.Logger, interval, maxAge time.Duration, maxEntries int) {
	const op = "storage.searchcache.RunPruner"

	prune := func() {
		removed, err := c.Prune(maxAge, maxEntries)
		if err != nil {
			log.Error("pruning search cache", slog.String("operation", op), slog.String("error", err.Error()))
			return
		}
		if removed > 0 {
			log.Debug("search cache pruned", slog.String("operation", op), slog.Int("removed", removed))
		}
	}

	prune()

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}

// VisitorKey scopes ResultsKey to one visitor.
func VisitorKey(visitorID string) string {
	return ResultsKey + "-" + visitorID
}
