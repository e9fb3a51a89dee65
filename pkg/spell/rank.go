package spell

import (
	"container/heap"
	"sort"
)

// Ranked is a dictionary word and its distance from the query.
type Ranked struct {
	Word     string
	Distance int
}

// less orders by distance, then lexicographically, so ties are reproducible.
func (r Ranked) less(o Ranked) bool {
	if r.Distance != o.Distance {
		return r.Distance < o.Distance
	}
	return r.Word < o.Word
}

// worstFirst is a max-heap on (distance, word): the root is the entry the
// bounded ranking evicts next.
type worstFirst []Ranked

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return h[j].less(h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(Ranked)) }
func (h *worstFirst) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// TopK keeps the k best entries offered to it.
type TopK struct {
	k int
	h worstFirst
}

// NewTopK returns an empty ranking that retains at most k entries.
func NewTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	return &TopK{k: k, h: make(worstFirst, 0, k+1)}
}

// Offer considers r for the ranking.
func (t *TopK) Offer(r Ranked) {
	if t.k == 0 {
		return
	}
	if len(t.h) < t.k {
		heap.Push(&t.h, r)
		return
	}
	if r.less(t.h[0]) {
		t.h[0] = r
		heap.Fix(&t.h, 0)
	}
}

// Len is the number of retained entries.
func (t *TopK) Len() int {
	return len(t.h)
}

// Sorted returns the retained entries best first.
func (t *TopK) Sorted() []Ranked {
	out := make([]Ranked, len(t.h))
	copy(out, t.h)
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Rank computes the edit distance from query to every word and returns the
// k closest, best first. Fewer than k words yields exactly that many.
func Rank(query string, words []string, k int) []Ranked {
	top := NewTopK(k)
	for _, w := range words {
		top.Offer(Ranked{Word: w, Distance: EditDistance(query, w)})
	}
	return top.Sorted()
}
