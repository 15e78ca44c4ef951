package display

import (
	"time"

	"github.com/hervehildenbrand/gmtu/pkg/report"
)

// WidthHistorySize is the number of range widths kept for the narrowing graph.
const WidthHistorySize = 16

// SearchStats aggregates probe outcomes for a discovery run in progress.
type SearchStats struct {
	Floor         int
	Ceiling       int
	Sent          int
	Fits          int
	TooLarge      int
	Indeterminate int
	Best          int // largest payload seen to fit
	Low           int // current search bounds
	High          int
	FastElapsed   time.Duration
	SlowElapsed   time.Duration
	SumElapsed    time.Duration
	WidthHistory  []int // candidates left after each probe, oldest first
}

// NewSearchStats creates stats for a search over [floor, ceiling].
func NewSearchStats(floor, ceiling int) *SearchStats {
	return &SearchStats{
		Floor:        floor,
		Ceiling:      ceiling,
		Low:          floor,
		High:         ceiling,
		WidthHistory: make([]int, 0, WidthHistorySize),
	}
}

// Add records one probe and narrows the bounds the same way the search does.
func (s *SearchStats) Add(p report.Probe) {
	s.Sent++
	s.SumElapsed += p.Elapsed

	if s.FastElapsed == 0 || p.Elapsed < s.FastElapsed {
		s.FastElapsed = p.Elapsed
	}
	if p.Elapsed > s.SlowElapsed {
		s.SlowElapsed = p.Elapsed
	}

	switch p.Outcome {
	case "fits":
		s.Fits++
		if p.Size > s.Best {
			s.Best = p.Size
		}
		s.Low = p.Size + 1
	case "too-large":
		s.TooLarge++
		s.High = p.Size - 1
	default:
		s.Indeterminate++
		s.High = p.Size - 1
	}

	// Keep the last WidthHistorySize widths
	if len(s.WidthHistory) >= WidthHistorySize {
		copy(s.WidthHistory, s.WidthHistory[1:])
		s.WidthHistory[WidthHistorySize-1] = s.Width()
	} else {
		s.WidthHistory = append(s.WidthHistory, s.Width())
	}
}

// Width returns the number of candidates left.
func (s *SearchStats) Width() int {
	if s.High < s.Low {
		return 0
	}
	return s.High - s.Low + 1
}

// Narrowed returns the fraction of the initial range already eliminated.
func (s *SearchStats) Narrowed() float64 {
	total := s.Ceiling - s.Floor + 1
	if total <= 0 {
		return 1
	}
	return 1 - float64(s.Width())/float64(total)
}

// AvgElapsed is the mean time a probe took to classify, zero before the first.
func (s *SearchStats) AvgElapsed() time.Duration {
	if s.Sent == 0 {
		return 0
	}
	return s.SumElapsed / time.Duration(s.Sent)
}
