package spellcheck

import (
	"log/slog"
	"sync"

	"subcorpus/internal/logging"
)

// Cache loads each dictionary file once and shares it between checkers.
type Cache struct {
	mu    sync.Mutex
	dicts map[string]*Dictionary
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{dicts: make(map[string]*Dictionary)}
}

// Load returns the dictionary stored at path. Failed loads are not cached.
func (c *Cache) Load(path string) (*Dictionary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dict, ok := c.dicts[path]; ok {
		return dict, nil
	}
	dict, err := LoadDictionary(path)
	if err != nil {
		return nil, err
	}
	c.dicts[path] = dict
	return dict, nil
}

// Corrector returns a Checker for the dictionary at path, or Nop when path
// is empty.
func (c *Cache) Corrector(path string, logger *slog.Logger) (Corrector, error) {
	if path == "" {
		return Nop{}, nil
	}
	dict, err := c.Load(path)
	if err != nil {
		return Nop{}, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("dictionary loaded", logging.String("path", path), logging.Int("words", dict.Len()))
	return NewChecker(dict, logger), nil
}
