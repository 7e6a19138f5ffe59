package algorithm

import (
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
	. "github.com/ttpr0/go-raptor/util"
)

// MakeQueue seeds Q[route] from the route-points marked in the
// previous round, then clears that marking so the round about to run
// starts from a clean slate. It reports whether any route was queued.
func MakeQueue(data *comps.TransitData, v Visitor, marking *Marking, queue *Queue) bool {
	queue.Reset(v.QueueSentinel())
	queued := false
	marking.RoutePoints.ForEach(func(idx int32) {
		rp := structs.RoutePointID(idx)
		info := data.GetRoutePoint(rp)
		queue.Tighten(v, info.RouteIdx, info.Order)
		queued = true
	})
	marking.Clear()
	return queued
}

// RunRounds drives the round loop of section 4.6: repeatedly build the
// route queue from the previous round's marking, scan every queued
// route, relax route-path connections and footpaths, and stop once a
// round produces no marking the destination tracker has not already
// absorbed. Round 0's labels and initial marking must already be
// populated by the caller (the origin seeding and its own footpath
// closure). Returns the number of rounds actually populated.
func RunRounds(data *comps.TransitData, v Visitor, labels *LabelStore, marking *Marking, queue *Queue, dest *BestDestination, routesValid *Bitset, pruning bool, maxRounds int, boardingSlack int32) int {
	round := 1
	for {
		if maxRounds > 0 && round > maxRounds {
			break
		}
		if !MakeQueue(data, v, marking, queue) {
			break
		}

		labels.OneMoreStep(int32(data.RoutePointCount()))

		// Termination is governed solely by the route scan, per section
		// 4.6: connection and footpath relaxation still run every round
		// to extend the marking the next round's queue is built from,
		// but neither contributes to the stopping decision.
		notDone := RouteScan(data, v, labels, marking, queue, dest, routesValid, round, pruning)
		ConnectionRelax(data, v, labels, marking, queue, dest, round)
		FootpathRelax(data, v, labels, marking, queue, dest, round, boardingSlack)

		if !notDone {
			round++
			break
		}
		round++
	}
	return round - 1
}
