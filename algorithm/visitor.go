package algorithm

import (
	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/structs"
	. "github.com/ttpr0/go-raptor/util"
)

// Visitor is the capability set that makes the round loop symmetric
// between the arrival-minimizing (forward) and departure-maximizing
// (reverse) searches. There is one concrete implementation per
// direction; the loop itself never branches on direction.
type Visitor interface {
	// Clockwise reports whether this visitor walks routes and time
	// forward (true) or backward (false).
	Clockwise() bool

	// Worst is the sentinel a fresh label starts from: +inf for
	// forward, -inf for reverse.
	Worst() structs.DateTime

	// Comp reports whether a is a strict improvement over b in this
	// direction (a < b forward, a > b reverse).
	Comp(a, b structs.DateTime) bool

	// CompOrEqual is Comp with ties admitted, used by the footpath
	// relaxer where equality must still register a pivot.
	CompOrEqual(a, b structs.DateTime) bool

	// Combine applies a duration to a time value in the walking
	// direction: addition forward, subtraction reverse.
	Combine(t structs.DateTime, delta int32) structs.DateTime

	// Field extracts the label's "instant" field this direction cares
	// about: arrival forward, departure reverse.
	Field(r *structs.Retour) structs.DateTime
	SetField(r *structs.Retour, t structs.DateTime)

	// OtherField is the complementary field, set alongside Field when
	// a label is stored.
	SetOtherField(r *structs.Retour, t structs.DateTime)

	// UpdateClock rolls a DateTime to a stop-time's raw seconds value,
	// per DateTime.Update / DateTime.UpdateReverse.
	UpdateClock(dt structs.DateTime, sec int32) structs.DateTime

	// StoreTime/BoardTime pick the two stop-time fields relevant to
	// this direction: the time passengers are dropped off/picked up
	// at (StoreTime) versus the time the vehicle can be boarded at
	// (BoardTime).
	StoreTime(st structs.StopTime) int32
	BoardTime(st structs.StopTime) int32
	StoreAllowed(st structs.StopTime) bool
	BoardAllowed(st structs.StopTime) bool

	// BestTrip finds the vehicle journey a passenger arriving at
	// route-point `order` at time dt could catch: earliest departure
	// forward, tardiest arrival reverse.
	BestTrip(data *comps.TransitData, route *structs.Route, order int32, dt structs.DateTime) (structs.VehicleJourneyID, bool)

	// FirstOrder/LastOrder/NextOrder walk a route's route-points in
	// this direction's order.
	FirstOrder(route *structs.Route) int32
	LastOrder(route *structs.Route) int32
	NextOrder(order int32) int32

	// QueueSentinel/QueueBetter implement Q[route]'s direction-specific
	// reset value and tightening comparison.
	QueueSentinel() int32
	QueueBetter(candidate, current int32) bool

	// Connections returns the route-path connections leaving rp in
	// this direction (outgoing forward, incoming reverse).
	Connections(data *comps.TransitData, rp structs.RoutePointID) List[structs.RoutePointConnection]

	// LabelType tags a freshly-boarded vehicle-journey label.
	VehicleJourneyLabelType() structs.LabelType
}

//*******************************************
// forward visitor: arrival-minimizing
//*******************************************

type ForwardVisitor struct{}

func NewForwardVisitor() ForwardVisitor { return ForwardVisitor{} }

func (ForwardVisitor) Clockwise() bool                { return true }
func (ForwardVisitor) Worst() structs.DateTime        { return structs.InfDateTime }
func (ForwardVisitor) Comp(a, b structs.DateTime) bool { return a.Before(b) }
func (ForwardVisitor) CompOrEqual(a, b structs.DateTime) bool {
	return a.Before(b) || a.Equal(b)
}
func (ForwardVisitor) Combine(t structs.DateTime, delta int32) structs.DateTime { return t.Add(delta) }
func (ForwardVisitor) Field(r *structs.Retour) structs.DateTime                 { return r.Arrival }
func (ForwardVisitor) SetField(r *structs.Retour, t structs.DateTime)           { r.Arrival = t }
func (ForwardVisitor) SetOtherField(r *structs.Retour, t structs.DateTime)      { r.Departure = t }
func (ForwardVisitor) UpdateClock(dt structs.DateTime, sec int32) structs.DateTime {
	return dt.Update(sec)
}
func (ForwardVisitor) StoreTime(st structs.StopTime) int32     { return st.ArrivalTime }
func (ForwardVisitor) BoardTime(st structs.StopTime) int32     { return st.DepartureTime }
func (ForwardVisitor) StoreAllowed(st structs.StopTime) bool   { return st.DropOffAllowed }
func (ForwardVisitor) BoardAllowed(st structs.StopTime) bool   { return st.PickUpAllowed }
func (ForwardVisitor) BestTrip(data *comps.TransitData, route *structs.Route, order int32, dt structs.DateTime) (structs.VehicleJourneyID, bool) {
	return data.EarliestTrip(route, order, dt)
}
func (ForwardVisitor) FirstOrder(route *structs.Route) int32 { return 0 }
func (ForwardVisitor) LastOrder(route *structs.Route) int32  { return int32(route.Size()) - 1 }
func (ForwardVisitor) NextOrder(order int32) int32           { return order + 1 }
func (ForwardVisitor) QueueSentinel() int32                  { return 1<<31 - 1 }
func (ForwardVisitor) QueueBetter(candidate, current int32) bool {
	return candidate < current
}
func (ForwardVisitor) Connections(data *comps.TransitData, rp structs.RoutePointID) List[structs.RoutePointConnection] {
	return data.ConnectionsForward(rp)
}
func (ForwardVisitor) VehicleJourneyLabelType() structs.LabelType {
	return structs.VehicleJourneyLabel
}

//*******************************************
// reverse visitor: departure-maximizing
//*******************************************

type ReverseVisitor struct{}

func NewReverseVisitor() ReverseVisitor { return ReverseVisitor{} }

func (ReverseVisitor) Clockwise() bool                { return false }
func (ReverseVisitor) Worst() structs.DateTime        { return structs.MinDateTime }
func (ReverseVisitor) Comp(a, b structs.DateTime) bool { return a.After(b) }
func (ReverseVisitor) CompOrEqual(a, b structs.DateTime) bool {
	return a.After(b) || a.Equal(b)
}
func (ReverseVisitor) Combine(t structs.DateTime, delta int32) structs.DateTime { return t.Sub(delta) }
func (ReverseVisitor) Field(r *structs.Retour) structs.DateTime                 { return r.Departure }
func (ReverseVisitor) SetField(r *structs.Retour, t structs.DateTime)           { r.Departure = t }
func (ReverseVisitor) SetOtherField(r *structs.Retour, t structs.DateTime)      { r.Arrival = t }
func (ReverseVisitor) UpdateClock(dt structs.DateTime, sec int32) structs.DateTime {
	return dt.UpdateReverse(sec)
}
func (ReverseVisitor) StoreTime(st structs.StopTime) int32     { return st.DepartureTime }
func (ReverseVisitor) BoardTime(st structs.StopTime) int32     { return st.ArrivalTime }
func (ReverseVisitor) StoreAllowed(st structs.StopTime) bool   { return st.PickUpAllowed }
func (ReverseVisitor) BoardAllowed(st structs.StopTime) bool   { return st.DropOffAllowed }
func (ReverseVisitor) BestTrip(data *comps.TransitData, route *structs.Route, order int32, dt structs.DateTime) (structs.VehicleJourneyID, bool) {
	return data.TardiestTrip(route, order, dt)
}
func (ReverseVisitor) FirstOrder(route *structs.Route) int32 { return int32(route.Size()) - 1 }
func (ReverseVisitor) LastOrder(route *structs.Route) int32  { return 0 }
func (ReverseVisitor) NextOrder(order int32) int32           { return order - 1 }
func (ReverseVisitor) QueueSentinel() int32                  { return -1 }
func (ReverseVisitor) QueueBetter(candidate, current int32) bool {
	return candidate > current
}
func (ReverseVisitor) Connections(data *comps.TransitData, rp structs.RoutePointID) List[structs.RoutePointConnection] {
	return data.ConnectionsBackward(rp)
}
func (ReverseVisitor) VehicleJourneyLabelType() structs.LabelType {
	return structs.VehicleJourneyLabel
}
