package structs

import (
	"encoding/json"
	"fmt"
	"math"
)

const daySeconds int64 = 24 * 60 * 60

// DateTime is the ordered scalar the round loop compares journeys with:
// a calendar day plus a seconds-of-day offset, stored as a single
// monotonic count of seconds so that ordinary integer comparison gives
// the right answer even across midnight.
type DateTime struct {
	total int64
}

// MinDateTime and InfDateTime are sentinels: MinDateTime sorts before
// and InfDateTime after every ordinary DateTime. They leave enough
// headroom under int64 overflow for Add/Sub to be applied a few times
// without wrapping.
var MinDateTime = DateTime{total: math.MinInt64 / 4}
var InfDateTime = DateTime{total: math.MaxInt64 / 4}

func NewDateTime(day int32, secondsOfDay int32) DateTime {
	return DateTime{total: int64(day)*daySeconds + int64(secondsOfDay)}
}

func (dt DateTime) Date() int32 {
	return int32(floorDiv(dt.total, daySeconds))
}

func (dt DateTime) SecondsOfDay() int32 {
	return int32(floorMod(dt.total, daySeconds))
}

// Update rolls dt forward so its seconds-of-day component equals sec,
// bumping the date by one day when sec has wrapped past midnight
// relative to the current clock.
func (dt DateTime) Update(sec int32) DateTime {
	day := dt.Date()
	next := int64(day)*daySeconds + int64(sec)
	if next < dt.total {
		next += daySeconds
	}
	return DateTime{total: next}
}

// UpdateReverse is the dual of Update, used while scanning routes
// backwards in a departure-maximizing (reverse) search.
func (dt DateTime) UpdateReverse(sec int32) DateTime {
	day := dt.Date()
	next := int64(day)*daySeconds + int64(sec)
	if next > dt.total {
		next -= daySeconds
	}
	return DateTime{total: next}
}

func (dt DateTime) Add(seconds int32) DateTime {
	return DateTime{total: dt.total + int64(seconds)}
}

func (dt DateTime) Sub(seconds int32) DateTime {
	return DateTime{total: dt.total - int64(seconds)}
}

// DiffSeconds returns dt-other in seconds.
func (dt DateTime) DiffSeconds(other DateTime) int32 {
	return int32(dt.total - other.total)
}

func (dt DateTime) Before(other DateTime) bool {
	return dt.total < other.total
}

func (dt DateTime) After(other DateTime) bool {
	return dt.total > other.total
}

func (dt DateTime) Equal(other DateTime) bool {
	return dt.total == other.total
}

// Compare returns -1, 0 or 1 the way sort.Interface-adjacent code expects.
func (dt DateTime) Compare(other DateTime) int {
	switch {
	case dt.total < other.total:
		return -1
	case dt.total > other.total:
		return 1
	default:
		return 0
	}
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%dd%02d:%02d:%02d", dt.Date(), dt.SecondsOfDay()/3600, (dt.SecondsOfDay()/60)%60, dt.SecondsOfDay()%60)
}

// dateTimeWire is the external representation of a DateTime: date and
// seconds-of-day, matching what a caller passed to NewDateTime rather
// than the internal monotonic total.
type dateTimeWire struct {
	Date         int32 `json:"date"`
	SecondsOfDay int32 `json:"seconds_of_day"`
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateTimeWire{Date: dt.Date(), SecondsOfDay: dt.SecondsOfDay()})
}

func (dt *DateTime) UnmarshalJSON(data []byte) error {
	var w dateTimeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*dt = NewDateTime(w.Date, w.SecondsOfDay)
	return nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
