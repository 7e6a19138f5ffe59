package routing

import (
	"github.com/ttpr0/go-raptor/structs"
)

// WalkingSpeed is the fixed pedestrian speed used to turn access and
// egress distances into seconds throughout the driver.
const WalkingSpeed = 1.38

// StopAccess pairs a stop-point with the walking distance, in meters,
// a caller has already computed to or from it -- street-network
// routing itself sits outside the engine.
type StopAccess struct {
	StopPoint structs.StopPointID
	Distance  float64
}

func (s StopAccess) Seconds() int32 {
	return int32(s.Distance / WalkingSpeed)
}

// Config holds the RAPTOR tuning knobs exposed as configuration, per
// section 9's guidance that the walking speed and boarding slack stay
// hard defaults but remain overridable.
type Config struct {
	WalkingSpeed  float64 `yaml:"walking-speed"`
	BoardingSlack int32   `yaml:"boarding-slack"`
	MaxRounds     int     `yaml:"max-rounds"`
	Pruning       bool    `yaml:"pruning"`
}

func DefaultConfig() Config {
	return Config{
		WalkingSpeed:  WalkingSpeed,
		BoardingSlack: 120,
		MaxRounds:     32,
		Pruning:       true,
	}
}

func secondsFromMeters(meters, speed float64) int32 {
	return int32(meters / speed)
}
