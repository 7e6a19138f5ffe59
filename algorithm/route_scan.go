package algorithm

import (
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
	. "github.com/ttpr0/go-raptor/util"
)

const noZone int16 = -1

// RouteScan runs step 4.3 for one round: for every valid, marked
// route it walks route-points in the route's direction, boarding and
// re-boarding trips, and stores improved labels. It returns true if
// any stored label was not absorbed by the destination tracker, i.e.
// the round is not yet quiescent.
func RouteScan(data *comps.TransitData, v Visitor, labels *LabelStore, marking *Marking, queue *Queue, dest *BestDestination, routesValid *Bitset, round int, pruning bool) bool {
	notDone := false

	for r := 0; r < data.RouteCount(); r++ {
		if !routesValid.Get(int32(r)) {
			continue
		}
		route := data.GetRoute(structs.RouteID(r))
		startOrder := queue.Get(structs.RouteID(r))
		if startOrder == v.QueueSentinel() {
			continue
		}

		boarded := structs.NoVehicleJourney
		boardingRP := structs.NoRoutePoint
		workingDT := v.Worst()
		lZone := noZone
		firstStoreOnTrip := false

		order := startOrder
		for {
			rp := route.RoutePointList[order]

			if boarded != structs.NoVehicleJourney {
				st := data.StopTimeAt(boarded, order)
				if lZone == noZone || int16(st.LocalTrafficZone) != lZone {
					candidate := v.UpdateClock(workingDT, v.StoreTime(st))
					bound := labels.Best(rp)
					boundField := v.Field(&bound)
					if pruning {
						destBound := dest.BestNow()
						if v.Comp(destBound, boundField) {
							boundField = destBound
						}
					}

					if v.StoreAllowed(st) {
						strictlyBetter := v.Comp(candidate, boundField)
						tied := !strictlyBetter && candidate.Equal(boundField)

						if strictlyBetter || tied {
							label := structs.Retour{
								Type:          v.VehicleJourneyLabelType(),
								StopTimeIdx:   st.Idx,
								BoardingRP:    boardingRP,
								BoardingRound: round - 1,
								UsedVJ:        firstStoreOnTrip,
							}
							v.SetField(&label, candidate)
							v.SetOtherField(&label, v.UpdateClock(workingDT, v.BoardTime(st)))

							commit := strictlyBetter
							var absorbed bool
							if tied {
								prev := labels.Get(round-1, rp)
								if !prev.IsInitialized() {
									// The destination tracker's acceptance doubles as
									// the tie-admission gate: a tie only matters for
									// Pareto enumeration if it reaches a destination.
									absorbed = dest.Offer(rp, label, round)
									commit = absorbed
								}
							}

							if commit {
								firstStoreOnTrip = false
								labels.Set(round, rp, label)
								labels.SetBest(rp, label)
								if strictlyBetter {
									absorbed = dest.Offer(rp, label, round)
								}
								if !absorbed {
									marking.MarkRoutePoint(rp)
									marking.MarkStopPoint(data.GetRoutePoint(rp).StopPointIdx)
									notDone = true
								}
							}
						}
					}
				}
			}

			prev := labels.Get(round-1, rp)
			var currentAtRP structs.DateTime
			if boarded != structs.NoVehicleJourney {
				st := data.StopTimeAt(boarded, order)
				currentAtRP = v.UpdateClock(workingDT, v.StoreTime(st))
			} else {
				currentAtRP = v.Worst()
			}
			canTry := prev.IsInitialized() && (boarded == structs.NoVehicleJourney || v.CompOrEqual(v.Field(&prev), currentAtRP))
			if canTry {
				etemp, ok := v.BestTrip(data, route, order, v.Field(&prev))
				if ok && etemp != boarded {
					boarded = etemp
					boardingRP = rp
					workingDT = v.Field(&prev)
					newSt := data.StopTimeAt(boarded, order)
					workingDT = v.UpdateClock(workingDT, v.BoardTime(newSt))
					lZone = noZone
					if newSt.HasLocalTrafficZone() {
						lZone = newSt.LocalTrafficZone
					}
					firstStoreOnTrip = true
				}
			}

			if order == v.LastOrder(route) {
				break
			}
			order = v.NextOrder(order)
		}

		queue.Set(structs.RouteID(r), v.QueueSentinel())
	}

	return notDone
}
