package algorithm

import (
	"github.com/ttpr0/go-raptor/structs"
	. "github.com/ttpr0/go-raptor/util"
)

// BestDestination tracks the best label reached among a query's
// destination route-points, both for global pruning (BestNow) and for
// enumerating the (arrival, transfers) Pareto frontier that later
// drives the reverse refinement pass.
type BestDestination struct {
	v Visitor

	egress Dict[structs.RoutePointID, int32]

	bestFinal structs.DateTime
	bestRP    structs.RoutePointID
	bestRound int

	frontier []FrontierPoint
}

// FrontierPoint is one strict improvement of the best-known destination
// time as rounds progress, i.e. one point on the (arrival, transfers)
// Pareto frontier the forward pass discovers. The reverse pass in
// section 4.7 step 3 re-derives one path per frontier point.
type FrontierPoint struct {
	Round int
	RP    structs.RoutePointID
	Label structs.Retour
	Final structs.DateTime
}

func NewBestDestination(v Visitor) *BestDestination {
	return &BestDestination{
		v:         v,
		egress:    NewDict[structs.RoutePointID, int32](4),
		bestFinal: v.Worst(),
		bestRP:    structs.NoRoutePoint,
		bestRound: -1,
	}
}

func (b *BestDestination) Frontier() []FrontierPoint {
	return b.frontier
}

func (b *BestDestination) AddDestination(rp structs.RoutePointID, egressSeconds int32) {
	b.egress[rp] = egressSeconds
}

func (b *BestDestination) IsDestination(rp structs.RoutePointID) bool {
	return b.egress.ContainsKey(rp)
}

// BestNow is the destination-tracker's own bound used for global
// pruning: the best final time reached so far, walking egress
// included.
func (b *BestDestination) BestNow() structs.DateTime {
	return b.bestFinal
}

func (b *BestDestination) Found() bool {
	return b.bestRP != structs.NoRoutePoint
}

func (b *BestDestination) Winner() (structs.RoutePointID, int) {
	return b.bestRP, b.bestRound
}

// Offer registers a label stored at rp during round, returning true if
// the destination tracker has absorbed it -- i.e. rp is a destination
// and this label is at least as good as the best final time known, so
// there is no need to keep relaxing outward from rp.
func (b *BestDestination) Offer(rp structs.RoutePointID, label structs.Retour, round int) bool {
	egress, ok := b.egress[rp]
	if !ok {
		return false
	}
	final := b.v.Combine(b.v.Field(&label), egress)
	if b.v.Comp(final, b.bestFinal) {
		b.bestFinal = final
		b.bestRP = rp
		b.bestRound = round
		b.frontier = append(b.frontier, FrontierPoint{Round: round, RP: rp, Label: label, Final: final})
		return true
	}
	return b.v.CompOrEqual(final, b.bestFinal)
}
