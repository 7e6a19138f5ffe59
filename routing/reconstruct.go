package routing

import (
	"github.com/ttpr0/go-raptor/algorithm"
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
)

// reconstruct walks the label tensor backward from (round, rp) per
// section 4.8, emitting one PathItem per leg. It stops at a Departure
// label. The walk itself always proceeds against the search's own
// time direction; reverse arrays back into chronological order only
// when v is the arrival-minimizing (clockwise) visitor, since a
// departure-maximizing pass already walks from the real origin toward
// the destination and so already produces a chronological item order.
func reconstruct(data *comps.TransitData, v algorithm.Visitor, labels *algorithm.LabelStore, startRP structs.RoutePointID, startRound int) []structs.PathItem {
	items := make([]structs.PathItem, 0, startRound+1)

	k := startRound
	rp := startRP
	for {
		label := labels.Get(k, rp)
		if label.Type == structs.Departure || label.Type == structs.Uninitialized {
			break
		}

		if label.IsWalkingKind() {
			boardingRP := label.BoardingRP
			itemType := structs.Walking
			switch label.Type {
			case structs.ConnectionExtensionLabel:
				itemType = structs.Extension
			case structs.ConnectionGuaranteeLabel:
				itemType = structs.Guarantee
			}

			fromSP := data.GetRoutePoint(boardingRP).StopPointIdx
			toSP := data.GetRoutePoint(rp).StopPointIdx
			boardingLabel := labels.Get(label.BoardingRound, boardingRP)

			items = append(items, structs.PathItem{
				Type:       itemType,
				StopPoints: []structs.StopPointID{toSP, fromSP},
				Departure:  v.Field(&boardingLabel),
				Arrival:    v.Field(&label),
			})

			k = label.BoardingRound
			rp = boardingRP
			continue
		}

		vj := data.GetStopTime(label.StopTimeIdx).VehicleJourneyIdx
		boardingRP := label.BoardingRP
		items = append(items, reconstructLeg(data, v, labels, label.BoardingRound, vj, boardingRP, rp))

		k = label.BoardingRound
		rp = boardingRP
	}

	if v.Clockwise() {
		reverseItems(items)
	}
	return items
}

// reconstructLeg walks stop-times of vj from boardingRP to rp in the
// search's own scan order, redoing the same UpdateClock rolling
// route_scan used, and returns one public_transport PathItem whose
// stop/arrival/departure lists run from rp back to boardingRP -- the
// same order a walking item lists its two stops in, so reconstruct's
// final reversal (forward only) leaves every item chronological.
// boardingRound is the round at which boardingRP's own label (the one
// route_scan boarded from) was stored -- carried explicitly on the
// vehicle-journey label rather than assumed from the walk depth.
func reconstructLeg(data *comps.TransitData, v algorithm.Visitor, labels *algorithm.LabelStore, boardingRound int, vj structs.VehicleJourneyID, boardingRP, rp structs.RoutePointID) structs.PathItem {
	boardingOrder := data.GetRoutePoint(boardingRP).Order
	targetOrder := data.GetRoutePoint(rp).Order

	boardingPrev := labels.Get(boardingRound, boardingRP)
	boardSt := data.StopTimeAt(vj, boardingOrder)
	route := data.GetRoute(data.GetRoutePoint(boardingRP).RouteIdx)

	cursor := v.UpdateClock(v.Field(&boardingPrev), v.BoardTime(boardSt))

	stopPoints := []structs.StopPointID{data.GetRoutePoint(boardingRP).StopPointIdx}
	arrivals := []structs.DateTime{v.Field(&boardingPrev)}
	departures := []structs.DateTime{cursor}

	order := boardingOrder
	for order != targetOrder {
		order = v.NextOrder(order)
		st := data.StopTimeAt(vj, order)
		arrival := v.UpdateClock(cursor, v.StoreTime(st))
		departure := v.UpdateClock(cursor, v.BoardTime(st))

		stopPoints = append(stopPoints, data.GetRoutePoint(route.RoutePointList[order]).StopPointIdx)
		arrivals = append(arrivals, arrival)
		departures = append(departures, departure)
		cursor = departure
	}

	// A reverse scan collects departure times through StoreTime and
	// arrival times through BoardTime, in anti-chronological order.
	departure, arrival := departures[0], arrivals[len(arrivals)-1]
	if !v.Clockwise() {
		arrivals, departures = departures, arrivals
		departure, arrival = departures[len(departures)-1], arrivals[0]
	}

	item := structs.PathItem{
		Type:       structs.PublicTransport,
		VJIdx:      vj,
		StopPoints: stopPoints,
		Arrivals:   arrivals,
		Departures: departures,
		Departure:  departure,
		Arrival:    arrival,
	}
	reverseStops(&item)
	return item
}

func reverseItems(items []structs.PathItem) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	for i := range items {
		reverseStops(&items[i])
	}
}

func reverseStops(item *structs.PathItem) {
	sp := item.StopPoints
	for i, j := 0, len(sp)-1; i < j; i, j = i+1, j-1 {
		sp[i], sp[j] = sp[j], sp[i]
	}
	ar := item.Arrivals
	for i, j := 0, len(ar)-1; i < j; i, j = i+1, j-1 {
		ar[i], ar[j] = ar[j], ar[i]
	}
	de := item.Departures
	for i, j := 0, len(de)-1; i < j; i, j = i+1, j-1 {
		de[i], de[j] = de[j], de[i]
	}
}
