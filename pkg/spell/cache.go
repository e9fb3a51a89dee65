package spell

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// cacheEntry is a ranking computed for some k; any smaller k is a prefix of it.
type cacheEntry struct {
	k      int
	ranked []Ranked
}

// SuggestionCache memoizes rankings per query word. Entries belong to one
// dictionary generation; seeing a newer generation drops everything.
// Least recently used entries are evicted past maxEntries.
type SuggestionCache struct {
	trie        *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	maxEntries  int
	generation  uint64
	hits        int
	misses      int
}

// NewSuggestionCache returns a cache holding up to maxEntries queries.
// maxEntries <= 0 disables caching.
func NewSuggestionCache(maxEntries int) *SuggestionCache {
	return &SuggestionCache{
		trie:       patricia.NewTrie(),
		accessTime: make(map[string]int64),
		maxEntries: maxEntries,
	}
}

// Get returns the cached top-k for query if a ranking of at least k entries
// was stored for the same generation.
func (c *SuggestionCache) Get(generation uint64, query string, k int) ([]Ranked, bool) {
	if c == nil || c.maxEntries <= 0 {
		return nil, false
	}
	c.sync(generation)

	item := c.trie.Get(patricia.Prefix(query))
	if item == nil {
		c.misses++
		return nil, false
	}
	entry := item.(cacheEntry)
	// a short ranking for a big k means the dictionary was smaller than k, still complete
	if entry.k < k && len(entry.ranked) == entry.k {
		c.misses++
		return nil, false
	}

	c.hits++
	c.markAccessed(query)
	if len(entry.ranked) > k {
		return entry.ranked[:k], true
	}
	return entry.ranked, true
}

// Put stores the ranking computed for (query, k).
func (c *SuggestionCache) Put(generation uint64, query string, k int, ranked []Ranked) {
	if c == nil || c.maxEntries <= 0 {
		return
	}
	c.sync(generation)

	key := patricia.Prefix(query)
	if c.trie.Get(key) == nil && len(c.accessTime) >= c.maxEntries {
		c.evictLRU()
	}
	c.trie.Set(key, cacheEntry{k: k, ranked: ranked})
	c.markAccessed(query)
}

// Len is the number of cached queries.
func (c *SuggestionCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.accessTime)
}

// Stats reports cache counters.
func (c *SuggestionCache) Stats() map[string]int {
	if c == nil {
		return map[string]int{}
	}
	return map[string]int{
		"cacheEntries": len(c.accessTime),
		"maxEntries":   c.maxEntries,
		"cacheHits":    c.hits,
		"cacheMisses":  c.misses,
	}
}

func (c *SuggestionCache) sync(generation uint64) {
	if generation == c.generation {
		return
	}
	if len(c.accessTime) > 0 {
		log.Debugf("Dictionary changed, dropping %d cached rankings", len(c.accessTime))
	}
	c.trie = patricia.NewTrie()
	c.accessTime = make(map[string]int64)
	c.generation = generation
}

func (c *SuggestionCache) markAccessed(query string) {
	c.accessCount++
	c.accessTime[query] = c.accessCount
}

func (c *SuggestionCache) evictLRU() {
	var oldestQuery string
	var oldestTime int64 = math.MaxInt64

	for query, accessTime := range c.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestQuery = query
		}
	}

	if oldestTime != math.MaxInt64 {
		c.trie.Delete(patricia.Prefix(oldestQuery))
		delete(c.accessTime, oldestQuery)
		log.Debugf("Evicted %q from suggestion cache", oldestQuery)
	}
}
