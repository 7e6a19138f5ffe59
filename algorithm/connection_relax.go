package algorithm

import (
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
)

// ConnectionRelax runs step 4.4 immediately after a round's route
// scan: every route-point marked this round propagates its label's
// time plus the connection length, without the boarding slack, across
// extension and guarantee connections, tightening Q for the
// destination route's next scan.
func ConnectionRelax(data *comps.TransitData, v Visitor, labels *LabelStore, marking *Marking, queue *Queue, dest *BestDestination, round int) bool {
	notDone := false

	marking.RoutePoints.ForEach(func(idx int32) {
		rp := structs.RoutePointID(idx)
		label := labels.Get(round, rp)
		if label.Type != v.VehicleJourneyLabelType() {
			return
		}

		for _, conn := range v.Connections(data, rp) {
			labelType := structs.ConnectionExtensionLabel
			if conn.Kind == structs.ConnectionGuarantee {
				labelType = structs.ConnectionGuaranteeLabel
			}

			candidate := v.Combine(v.Field(&label), conn.Length)
			destRP := conn.DestinationRoutePointIdx
			current := labels.Best(destRP)
			currentField := v.Field(&current)

			if !v.Comp(candidate, currentField) {
				continue
			}

			next := structs.Retour{
				Type:          labelType,
				BoardingRP:    rp,
				BoardingRound: round,
			}
			v.SetField(&next, candidate)
			v.SetOtherField(&next, candidate)

			labels.Set(round, destRP, next)
			labels.SetBest(destRP, next)

			destRoute := data.GetRoutePoint(destRP)
			absorbed := dest.Offer(destRP, next, round)
			if !absorbed {
				marking.MarkRoutePoint(destRP)
				marking.MarkStopPoint(destRoute.StopPointIdx)
				queue.Tighten(v, destRoute.RouteIdx, destRoute.Order)
				notDone = true
			}
		}
	})

	return notDone
}
