package thumbnail

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Entry is one cached thumbnail.
type Entry struct {
	VideoID string
	URI     string
}

// Cache maps video ids to the thumbnail URI last applied.
type Cache struct {
	store  Store
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]string
	order   []string
	dirty   bool
}

// Load reads the cache from store. A missing or malformed cache yields an
// empty cache; only a failing store is an error, because saving over an
// unreadable cache would drop its entries.
func Load(ctx context.Context, store Store, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{store: store, logger: logger, entries: map[string]string{}}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load thumbnail cache from %s: %w", store, err)
	}

	entries, err := parse(data)
	if err != nil {
		logger.Warn("Ignoring malformed thumbnail cache", zap.Stringer("store", store), zap.Error(err))
		return c, nil
	}
	for _, e := range entries {
		c.put(e.VideoID, e.URI)
	}
	c.dirty = false

	logger.Debug("Loaded thumbnail cache", zap.Stringer("store", store), zap.Int("entries", len(c.order)))
	return c, nil
}

// Get returns the thumbnail last applied to a video.
func (c *Cache) Get(videoID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	uri, ok := c.entries[videoID]
	return uri, ok
}

// Set records the thumbnail applied to a video.
func (c *Cache) Set(videoID, uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(videoID, uri)
}

// Forget removes a video so its thumbnail is uploaded again on the next run.
func (c *Cache) Forget(videoID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[videoID]; !ok {
		return false
	}
	delete(c.entries, videoID)
	for i, id := range c.order {
		if id == videoID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.dirty = true
	return true
}

// Entries returns the cached entries in file order.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, Entry{VideoID: id, URI: c.entries[id]})
	}
	return out
}

// Save writes the cache back if it changed. It is safe to call more than once.
func (c *Cache) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	var buf bytes.Buffer
	for _, id := range c.order {
		fmt.Fprintf(&buf, "%s|%s\n", id, c.entries[id])
	}
	if err := c.store.Save(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("save thumbnail cache to %s: %w", c.store, err)
	}
	c.dirty = false
	c.logger.Debug("Saved thumbnail cache", zap.Stringer("store", c.store), zap.Int("entries", len(c.order)))
	return nil
}

func (c *Cache) put(videoID, uri string) {
	old, exists := c.entries[videoID]
	if !exists {
		c.order = append(c.order, videoID)
	}
	if !exists || old != uri {
		c.entries[videoID] = uri
		c.dirty = true
	}
}

func parse(data []byte) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		id, uri, ok := strings.Cut(text, "|")
		if !ok || id == "" || uri == "" {
			return nil, fmt.Errorf("line %d: expected videoID|uri", line)
		}
		entries = append(entries, Entry{VideoID: id, URI: uri})
	}
	return entries, scanner.Err()
}
