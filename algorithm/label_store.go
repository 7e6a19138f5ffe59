package algorithm

import "github.com/ttpr0/go-raptor/structs"

// LabelStore holds the round-based label tensor τ[k][rp] plus the
// flat best[rp] array, both owned exclusively by one engine instance
// for the duration of one query.
type LabelStore struct {
	rounds   [][]structs.Retour
	best     []structs.Retour
	sentinel structs.Retour
}

func NewLabelStore(routePointCount int32, sentinel structs.Retour) *LabelStore {
	ls := &LabelStore{sentinel: sentinel}
	ls.best = make([]structs.Retour, routePointCount)
	for i := range ls.best {
		ls.best[i] = sentinel
	}
	ls.OneMoreStep(routePointCount)
	return ls
}

// OneMoreStep appends a fresh, sentinel-filled round -- the only way
// the tensor grows, one round per round-loop iteration.
func (ls *LabelStore) OneMoreStep(routePointCount int32) {
	round := make([]structs.Retour, routePointCount)
	for i := range round {
		round[i] = ls.sentinel
	}
	ls.rounds = append(ls.rounds, round)
}

func (ls *LabelStore) Rounds() int {
	return len(ls.rounds)
}

func (ls *LabelStore) Get(k int, rp structs.RoutePointID) structs.Retour {
	return ls.rounds[k][rp]
}

func (ls *LabelStore) Set(k int, rp structs.RoutePointID, r structs.Retour) {
	ls.rounds[k][rp] = r
}

func (ls *LabelStore) Best(rp structs.RoutePointID) structs.Retour {
	return ls.best[rp]
}

// BestInitializedCount is the number of route-points best[] has ever
// improved from the sentinel -- the numerator of percent_visited.
func (ls *LabelStore) BestInitializedCount() int {
	n := 0
	for i := range ls.best {
		if ls.best[i].IsInitialized() {
			n++
		}
	}
	return n
}

// SetBest records rp's new best label, used only for pruning bounds --
// path reconstruction always follows a label's own BoardingRound
// rather than relying on this flat array's provenance.
func (ls *LabelStore) SetBest(rp structs.RoutePointID, r structs.Retour) {
	ls.best[rp] = r
}

// Reset drops every round and reinitializes best[], reusing the
// storage between multi-datetime queries would require a shape-aware
// hand-back; for now each reset simply reallocates the label tensor.
func (ls *LabelStore) Reset(routePointCount int32) {
	ls.rounds = ls.rounds[:0]
	for i := range ls.best {
		ls.best[i] = ls.sentinel
	}
	ls.OneMoreStep(routePointCount)
}
