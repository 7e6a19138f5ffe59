package algorithm

import "github.com/ttpr0/go-raptor/structs"

// Queue holds Q[route], the earliest (forward) or latest (reverse)
// marked order on each route, seeding the route scan. Reset every
// round by MakeQueue.
type Queue struct {
	q []int32
}

func NewQueue(routeCount int32) *Queue {
	return &Queue{q: make([]int32, routeCount)}
}

func (q *Queue) Reset(sentinel int32) {
	for i := range q.q {
		q.q[i] = sentinel
	}
}

func (q *Queue) Get(route structs.RouteID) int32 {
	return q.q[route]
}

func (q *Queue) Set(route structs.RouteID, order int32) {
	q.q[route] = order
}

// Tighten writes order into Q[route] if it improves on the current
// value per the direction's QueueBetter comparison.
func (q *Queue) Tighten(v Visitor, route structs.RouteID, order int32) {
	if v.QueueBetter(order, q.q[route]) {
		q.q[route] = order
	}
}
