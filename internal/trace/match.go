package trace

import (
	"strings"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

// Matcher pairs windows across two traces. Stable IDs match exactly
// when both traces come from the same shell session; across sessions
// tokens change, so a scored title comparison backs it up.
type Matcher struct {
	ExactTitleScore   int
	PartialTitleScore int
	SameTokenScore    int
	SimilarSizeScore  int
	MinimumScore      int
}

// DefaultMatcher returns a matcher with default scoring.
func DefaultMatcher() *Matcher {
	return &Matcher{
		ExactTitleScore:   100,
		PartialTitleScore: 50,
		SameTokenScore:    50,
		SimilarSizeScore:  10,
		MinimumScore:      60,
	}
}

// Pairing is the outcome of matching two window sets.
type Pairing struct {
	Pairs [][2]*core.WindowState
	OnlyA []*core.WindowState
	OnlyB []*core.WindowState
}

// Pair matches windows of set a against set b. Exact stable-ID matches
// win outright; leftovers fall back to best-scoring title matches above
// the minimum threshold.
func (m *Matcher) Pair(a, b []*core.WindowState) Pairing {
	var p Pairing

	byStableID := make(map[string]int, len(b))
	for i, w := range b {
		byStableID[w.StableID()] = i
	}
	usedB := make([]bool, len(b))

	var leftoverA []*core.WindowState
	for _, w := range a {
		if i, ok := byStableID[w.StableID()]; ok && !usedB[i] {
			usedB[i] = true
			p.Pairs = append(p.Pairs, [2]*core.WindowState{w, b[i]})
			continue
		}
		leftoverA = append(leftoverA, w)
	}

	for _, w := range leftoverA {
		best := -1
		bestScore := 0
		for i, cand := range b {
			if usedB[i] {
				continue
			}
			score := m.score(w, cand)
			if score >= m.MinimumScore && score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			usedB[best] = true
			p.Pairs = append(p.Pairs, [2]*core.WindowState{w, b[best]})
		} else {
			p.OnlyA = append(p.OnlyA, w)
		}
	}

	for i, w := range b {
		if !usedB[i] {
			p.OnlyB = append(p.OnlyB, w)
		}
	}
	return p
}

func (m *Matcher) score(a, b *core.WindowState) int {
	score := m.scoreTitle(a.Title(), b.Title())
	if a.Token() != "" && a.Token() == b.Token() {
		score += m.SameTokenScore
	}
	if similarSize(a.Frame(), b.Frame()) {
		score += m.SimilarSizeScore
	}
	return score
}

func (m *Matcher) scoreTitle(a, b string) int {
	if a == b {
		return m.ExactTitleScore
	}
	al, bl := strings.ToLower(a), strings.ToLower(b)
	if al == bl {
		return m.ExactTitleScore
	}
	if al != "" && bl != "" && (strings.Contains(al, bl) || strings.Contains(bl, al)) {
		return m.PartialTitleScore
	}

	// Token overlap handles titles like "file.go - Project - Editor"
	// where only one segment moved.
	at, bt := strings.Fields(a), strings.Fields(b)
	common := commonTokens(at, bt)
	if common > 0 && len(at) > 0 {
		return (common * m.PartialTitleScore) / len(at)
	}
	return 0
}

func commonTokens(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[strings.ToLower(t)] = true
	}
	n := 0
	for _, t := range b {
		if set[strings.ToLower(t)] {
			n++
		}
	}
	return n
}

// similarSize tolerates a 10% drift in each dimension.
func similarSize(a, b core.Rect) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() == b.IsEmpty()
	}
	return withinTenPercent(a.Width(), b.Width()) && withinTenPercent(a.Height(), b.Height())
}

func withinTenPercent(a, b int32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	max := a
	if b > max {
		max = b
	}
	return int64(diff)*10 <= int64(max)
}
