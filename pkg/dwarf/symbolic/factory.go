package symbolic

import (
	"container/list"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// CachingFactory wraps another factory with an LRU cache and deduplication
// of concurrent decodes of the same key. Cached (downward) handles can be
// pointed at a CachingFactory so repeated navigation of hot parts of the
// symbol graph does not re-decode.
//
// Decoding is idempotent, so the cache only trades work for memory; it
// never changes what a key resolves to.
type CachingFactory struct {
	logger zerolog.Logger
	inner  Factory
	cache  *symbolCache
	group  singleflight.Group
}

// NewCachingFactory wraps inner with a cache holding at most capacity
// decoded symbols.
func NewCachingFactory(logger zerolog.Logger, inner Factory, capacity int) *CachingFactory {
	return &CachingFactory{
		logger: logger.With().Str("component", "symbol-cache").Logger(),
		inner:  inner,
		cache:  newSymbolCache(capacity),
	}
}

// Produce implements Factory. On a cache miss, concurrent callers asking
// for the same key share a single decode.
func (f *CachingFactory) Produce(key Key) Symbol {
	if key == 0 {
		return Null()
	}
	if sym, ok := f.cache.get(key); ok {
		return sym
	}

	v, _, _ := f.group.Do(strconv.FormatUint(uint64(key), 16), func() (interface{}, error) {
		sym := f.inner.Produce(key)
		if sym == nil {
			// Contract violation in the wrapped factory; repair it here so
			// the null-safety guarantee holds downstream.
			f.logger.Warn().Uint64("key", uint64(key)).Msg("factory returned nil symbol")
			sym = Null()
		}
		if !IsNull(sym) {
			f.cache.put(key, sym)
		}
		return sym, nil
	})
	return v.(Symbol)
}

// Len returns the number of cached symbols.
func (f *CachingFactory) Len() int { return f.cache.len() }

// symbolCache is a fixed-capacity LRU over decoded symbols.
type symbolCache struct {
	capacity int
	mu       sync.Mutex
	items    map[Key]*list.Element
	lruList  *list.List
}

type cacheEntry struct {
	key Key
	sym Symbol
}

func newSymbolCache(capacity int) *symbolCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &symbolCache{
		capacity: capacity,
		items:    make(map[Key]*list.Element),
		lruList:  list.New(),
	}
}

func (c *symbolCache) get(key Key) (Symbol, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*cacheEntry).sym, true
	}
	return nil, false
}

func (c *symbolCache) put(key Key, sym Symbol) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lruList.MoveToFront(elem)
		elem.Value.(*cacheEntry).sym = sym
		return
	}

	elem := c.lruList.PushFront(&cacheEntry{key: key, sym: sym})
	c.items[key] = elem

	if c.lruList.Len() > c.capacity {
		oldest := c.lruList.Back()
		if oldest != nil {
			c.lruList.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *symbolCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}
