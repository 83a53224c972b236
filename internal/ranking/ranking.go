// Package ranking turns candidate scores into a sorted, filtered view with
// rank-change tracking and score statistics.
package ranking

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jmwanja/resume-matcher/internal/models"
)

// Sort criteria. An unknown value sorts by the overall score.
const (
	SortOverall    = "overall"
	SortKeyword    = "keyword"
	SortSkills     = "skills"
	SortExperience = "experience"
	SortEducation  = "education"
)

// Score band filters applied to the overall score.
const (
	FilterAll       = "all"
	FilterExcellent = "excellent" // >= 80
	FilterGood      = "good"      // 60-79
	FilterLow       = "low"       // < 60
)

// RankChangeWindow is how long a rank-change indicator stays visible.
const RankChangeWindow = 3 * time.Second

// Options selects and orders the entries of a ranked view.
type Options struct {
	SortBy    string
	Ascending bool
	Filter    string
	Search    string
}

// RankChange records a movement in the ranking and when it happened.
type RankChange struct {
	Direction string    `json:"direction"` // "up" or "down"
	At        time.Time `json:"at"`
}

// VisibleAt reports whether the change indicator should still be shown at the
// given time. Pure function of the timestamp, so views can be recomputed
// without any scheduled reset.
func (c RankChange) VisibleAt(now time.Time) bool {
	elapsed := now.Sub(c.At)
	return elapsed >= 0 && elapsed < RankChangeWindow
}

// Entry is one candidate in a ranked view.
type Entry struct {
	models.CandidateScore
	Rank     int         `json:"rank"`
	PrevRank int         `json:"prevRank,omitempty"` // 0 when first seen
	Change   *RankChange `json:"rankChange,omitempty"`
}

// Stats summarizes the full score set, ignoring search and filter.
type Stats struct {
	Count     int `json:"count"`
	Average   int `json:"average"`
	Max       int `json:"max"`
	Min       int `json:"min"`
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Low       int `json:"low"`
}

// RankedView is a transient snapshot of the ranking. It is recomputed on
// every call and holds no live references into the engine.
type RankedView struct {
	Entries []Entry `json:"entries"`
	Stats   Stats   `json:"stats"`
}

// Find returns the entry for a candidate id, serving the detail view from
// data already in hand.
func (v RankedView) Find(id string) (Entry, bool) {
	for _, e := range v.Entries {
		if e.CandidateID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Engine computes ranked views and remembers the previous ranks per candidate
// so movements can be flagged. The clock is injected for testability.
type Engine struct {
	mu      sync.Mutex
	prev    map[string]int
	changes map[string]RankChange
	now     func() time.Time
}

// NewEngine creates a ranking engine using the wall clock.
func NewEngine() *Engine {
	return NewEngineWithClock(time.Now)
}

// NewEngineWithClock creates a ranking engine with an injected clock.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{
		prev:    make(map[string]int),
		changes: make(map[string]RankChange),
		now:     now,
	}
}

// Rank builds a view of the scores: search narrows by name or file name,
// then the band filter applies to the overall score, then the survivors are
// stable-sorted by the chosen criterion, descending unless Ascending is set.
// Ranks are compared against the previous view to flag movements.
func (e *Engine) Rank(scores []models.CandidateScore, opts Options) RankedView {
	view := RankedView{Stats: computeStats(scores)}

	selected := make([]models.CandidateScore, 0, len(scores))
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	for _, s := range scores {
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.FileName), search) {
			continue
		}
		if !inBand(s.Overall, opts.Filter) {
			continue
		}
		selected = append(selected, s)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i].Subscore(opts.SortBy), selected[j].Subscore(opts.SortBy)
		if opts.Ascending {
			return a < b
		}
		return a > b
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	// Expired records would otherwise accumulate for the process lifetime.
	for id, change := range e.changes {
		if !change.VisibleAt(now) {
			delete(e.changes, id)
		}
	}

	currentRanks := make(map[string]int, len(selected))
	view.Entries = make([]Entry, len(selected))
	for i, s := range selected {
		rank := i + 1
		entry := Entry{CandidateScore: s, Rank: rank}

		if prev, seen := e.prev[s.CandidateID]; seen {
			entry.PrevRank = prev
			if rank != prev {
				direction := "up"
				if rank > prev {
					direction = "down"
				}
				e.changes[s.CandidateID] = RankChange{Direction: direction, At: now}
			}
		}
		if change, ok := e.changes[s.CandidateID]; ok {
			c := change
			entry.Change = &c
		}

		currentRanks[s.CandidateID] = rank
		view.Entries[i] = entry
	}
	e.prev = currentRanks

	return view
}

func inBand(overall int, filter string) bool {
	switch filter {
	case FilterExcellent:
		return overall >= 80
	case FilterGood:
		return overall >= 60 && overall < 80
	case FilterLow:
		return overall < 60
	default:
		return true
	}
}

func computeStats(scores []models.CandidateScore) Stats {
	stats := Stats{Count: len(scores)}
	if len(scores) == 0 {
		return stats
	}

	sum := 0
	stats.Max = scores[0].Overall
	stats.Min = scores[0].Overall
	for _, s := range scores {
		sum += s.Overall
		if s.Overall > stats.Max {
			stats.Max = s.Overall
		}
		if s.Overall < stats.Min {
			stats.Min = s.Overall
		}
		switch {
		case s.Overall >= 80:
			stats.Excellent++
		case s.Overall >= 60:
			stats.Good++
		default:
			stats.Low++
		}
	}
	stats.Average = (sum + len(scores)/2) / len(scores)
	return stats
}
