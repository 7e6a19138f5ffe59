package store

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/ttpr0/go-raptor/structs"
)

// Notifier publishes one QueryComputed event per answered routing query
// to NATS, for downstream consumers that want to react to query
// traffic without polling the metrics endpoint. Publishing is
// fire-and-forget: a connection or publish failure never fails the
// request it is reporting on.
type Notifier struct {
	nc      *nats.Conn
	subject string
}

const DefaultSubject = "raptor.queries.computed"

func Connect(url string) (*Notifier, error) {
	nc, err := nats.Connect(url, nats.Name("go-raptor"))
	if err != nil {
		return nil, fmt.Errorf("connect notifier: %w", err)
	}
	return &Notifier{nc: nc, subject: DefaultSubject}, nil
}

func (n *Notifier) Close() {
	if n.nc == nil {
		return
	}
	n.nc.Drain()
	n.nc.Close()
}

// QueryComputed is the payload published after every successful
// Manager.Route call.
type QueryComputed struct {
	DepartureArea   structs.StopAreaID `json:"departure_area"`
	DestinationArea structs.StopAreaID `json:"destination_area"`
	RequestTime     structs.DateTime   `json:"request_time"`
	Clockwise       bool               `json:"clockwise"`
	PathsFound      int                `json:"paths_found"`
}

func (n *Notifier) PublishQueryComputed(evt QueryComputed) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode query event: %w", err)
	}
	return n.nc.Publish(n.subject, b)
}
