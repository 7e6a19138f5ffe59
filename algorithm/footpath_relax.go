package algorithm

import (
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
)

// DefaultBoardingSlack is the fixed dwell time a passenger needs at a
// stop before boarding again, whether re-boarding at the same physical
// stop on a different route-point or after walking a footpath. Callers
// running with a configured slack pass it explicitly to FootpathRelax
// rather than relying on this default.
const DefaultBoardingSlack int32 = 120

// FootpathRelax runs step 4.5 for one round: every stop-point marked
// this round offers its slack-adjusted departure time to the other
// route-points sharing the stop (duration zero) and to every
// footpath's destination stop-point, in one ascending pass over the
// shared stop-point iterator so consecutive footpaths of equal
// duration reuse the same combined time.
func FootpathRelax(data *comps.TransitData, v Visitor, labels *LabelStore, marking *Marking, queue *Queue, dest *BestDestination, round int, boardingSlack int32) bool {
	notDone := false

	marking.StopPoints.ForEach(func(idx int32) {
		sp := structs.StopPointID(idx)
		stopPoint := data.GetStopPoint(sp)

		bestRP, best := bestAtStopPoint(data, labels, v, stopPoint, round)
		if !best.IsInitialized() {
			return
		}
		departureField := v.Combine(v.Field(&best), boardingSlack)

		if offerAtStopPoint(data, v, labels, marking, queue, dest, round, stopPoint, bestRP, departureField, true) {
			notDone = true
		}

		var precDuration int32 = -1
		var precCandidate structs.DateTime
		for _, fp := range data.FootpathsFrom(sp) {
			if fp.Duration != precDuration {
				precDuration = fp.Duration
				precCandidate = v.Combine(departureField, fp.Duration)
			}
			destSP := data.GetStopPoint(fp.DestinationStopPointIdx)
			if offerAtStopPoint(data, v, labels, marking, queue, dest, round, destSP, bestRP, precCandidate, false) {
				notDone = true
			}
		}
	})

	return notDone
}

// bestAtStopPoint returns the best label stored this round among any
// of the stop-point's route-points -- the shared basis every sibling
// route-point and outgoing footpath relaxes from. Restricting the scan
// to this round's slice (rather than the flat best[] array) keeps the
// pivot's BoardingRound unambiguous: it is always this round.
//
// Only a vehicle-journey arrival or the initial departure seed is
// eligible as a pivot, matching raptor.cpp's foot_path candidate filter
// (retour[count][rpidx].type == vj || type == depart). Without this a
// Connection/ConnectionExtension/ConnectionGuarantee label installed
// earlier in the same FootpathRelax pass -- reachable since
// marking.StopPoints.ForEach reads each word live as it advances --
// could itself become a pivot, chaining two transfers into one round.
func bestAtStopPoint(data *comps.TransitData, labels *LabelStore, v Visitor, sp structs.StopPoint, round int) (structs.RoutePointID, structs.Retour) {
	best := structs.UninitializedRetour()
	if !v.Clockwise() {
		best = structs.UninitializedRetourReverse()
	}
	bestRP := structs.NoRoutePoint
	vjType := v.VehicleJourneyLabelType()
	for _, rp := range sp.RoutePointList {
		label := labels.Get(round, rp)
		if !label.IsInitialized() {
			continue
		}
		if label.Type != vjType && label.Type != structs.Departure {
			continue
		}
		if !best.IsInitialized() || v.Comp(v.Field(&label), v.Field(&best)) {
			best = label
			bestRP = rp
		}
	}
	return bestRP, best
}

// offerAtStopPoint installs a Connection label at every route-point of
// sp, referencing bestRP as the pivot the reconstructor walks back to.
// sameStop distinguishes the two install semantics of section 4.5: the
// same-stop-point relax (sameStop true) excludes bestRP itself from the
// loop and only installs a strict improvement over the current best,
// while the footpath-destination relax (sameStop false) has no self to
// exclude and installs on a comp-or-equal candidate so ties still
// register a pivot.
func offerAtStopPoint(data *comps.TransitData, v Visitor, labels *LabelStore, marking *Marking, queue *Queue, dest *BestDestination, round int, sp structs.StopPoint, bestRP structs.RoutePointID, candidate structs.DateTime, sameStop bool) bool {
	notDone := false
	for _, rp := range sp.RoutePointList {
		if sameStop && rp == bestRP {
			continue
		}
		current := labels.Best(rp)
		if sameStop {
			if current.IsInitialized() && !v.Comp(candidate, v.Field(&current)) {
				continue
			}
		} else {
			if current.IsInitialized() && v.Comp(v.Field(&current), candidate) {
				continue
			}
		}

		next := structs.Retour{
			Type:          structs.Connection,
			BoardingRP:    bestRP,
			BoardingRound: round,
		}
		v.SetField(&next, candidate)
		v.SetOtherField(&next, candidate)

		labels.Set(round, rp, next)
		labels.SetBest(rp, next)

		absorbed := dest.Offer(rp, next, round)
		if !absorbed {
			rpInfo := data.GetRoutePoint(rp)
			marking.MarkRoutePoint(rp)
			marking.MarkStopPoint(rpInfo.StopPointIdx)
			queue.Tighten(v, rpInfo.RouteIdx, rpInfo.Order)
			notDone = true
		}
	}
	return notDone
}
