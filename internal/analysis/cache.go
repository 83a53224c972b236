// Package analysis turns a job description into structured sections, using
// the remote analyzer when reachable and the local heuristics when not, and
// memoizes the result per job.
package analysis

import (
	"sync"

	"github.com/jmwanja/resume-matcher/internal/models"
)

// Cache memoizes job analyses by job identity. It is injected into whatever
// needs it rather than living as a package singleton, so sessions and tests
// can isolate instances. Entries are append-only for the process lifetime and
// never evicted; sessions are short-lived, so unbounded growth is accepted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]models.JobAnalysis
}

// NewCache creates an empty analysis cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]models.JobAnalysis)}
}

// GetOrAnalyze returns the cached analysis for the job, computing it with
// analyze on a miss. The key is the job id, falling back to the title.
// analyze is invoked at most once per key: an analysis recovered via the
// local fallback is cached as success and never re-attempted for the same
// key. Compute-if-absent runs under the cache lock, so concurrent callers
// on the same key cannot race a duplicate analysis.
func (c *Cache) GetOrAnalyze(job models.JobDescription, analyze func(models.JobDescription) models.JobAnalysis) models.JobAnalysis {
	key := job.CacheKey()

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.entries[key]; ok {
		return cached
	}

	result := analyze(job)
	c.entries[key] = result
	return result
}

// Len reports the number of cached analyses.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
