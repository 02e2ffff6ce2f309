package walk

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/panyam/pgcl/ast"
)

const DefaultCacheSize = 4096

// Cache memoizes free variable sets of expression nodes.  Trees are
// immutable and rewrites share untouched subtrees, so analyses that keep
// asking about the same subtrees get their answers without a walk.
// Entries are keyed by node identity, not by structure.  A Cache is safe for
// concurrent use.
type Cache struct {
	entries *lru.Cache[ast.Expr, VarSet]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewCache creates a cache holding at most size entries.  Evictions are
// traced at debug level on logger, or slog.Default() when it is nil.
func NewCache(size int, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := lru.NewWithEvict(size, func(e ast.Expr, vars VarSet) {
		logger.Debug("Evicted free variables", "expr", e.String(), "count", vars.Cardinality())
	})
	if err != nil {
		return nil, fmt.Errorf("creating free variable cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns a copy of the cached set for e.
func (c *Cache) Get(e ast.Expr) (VarSet, bool) {
	vars, ok := c.entries.Get(e)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return vars.Clone(), true
}

// Add stores a copy of vars as the free variables of e.
func (c *Cache) Add(e ast.Expr, vars VarSet) {
	c.entries.Add(e, vars.Clone())
}

func (c *Cache) Len() int { return c.entries.Len() }

func (c *Cache) Purge() { c.entries.Purge() }

// Stats returns the number of lookups that hit and missed so far.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
