package rexile

import "sync"

// cacheEntry holds one pattern's compiled Matcher plus the compile error,
// if any, and a sync.Once ensuring exactly one goroutine ever calls Compile
// for this pattern even if several race to look it up first.
type cacheEntry struct {
	once sync.Once
	m    *Matcher
	err  error
}

// patternCache is process-wide and never evicts: once a pattern has been
// compiled here, the Matcher lives for the life of the process. Callers
// that compile an unbounded, attacker-controlled set of distinct patterns
// should call Compile directly instead.
var patternCache sync.Map // string -> *cacheEntry

// CompileCached compiles pattern with default options, memoizing the
// result process-wide. Concurrent callers for the same pattern string
// block on one shared compilation rather than racing independent ones.
//
// Compile errors are never persisted: a caller that repeatedly test-compiles
// an invalid pattern gets a fresh compile attempt every time, not a
// permanently memoized error occupying a cache slot forever.
func CompileCached(pattern string) (*Matcher, error) {
	v, _ := patternCache.LoadOrStore(pattern, &cacheEntry{})
	entry := v.(*cacheEntry)
	entry.once.Do(func() {
		entry.m, entry.err = Compile(pattern)
		if entry.err != nil {
			patternCache.Delete(pattern)
		}
	})
	return entry.m, entry.err
}

// MustCompileCached is CompileCached's panicking counterpart.
func MustCompileCached(pattern string) *Matcher {
	m, err := CompileCached(pattern)
	if err != nil {
		panic("rexile: Compile(" + pattern + "): " + err.Error())
	}
	return m
}
