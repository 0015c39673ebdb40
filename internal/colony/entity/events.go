package entity

import (
	"github.com/google/uuid"

	"SpaceColony/internal/colony/entity/domain"
)

type EventKind string

const (
	EventShipBuilt         EventKind = "ship_built"
	EventDestinationSet    EventKind = "destination_set"
	EventShipPreparing     EventKind = "ship_preparing"
	EventShipLaunched      EventKind = "ship_launched"
	EventShipArrived       EventKind = "ship_arrived"
	EventCargoOffloaded    EventKind = "cargo_offloaded"
	EventLocationColonized EventKind = "location_colonized"
	EventStationDeployed   EventKind = "station_deployed"
	EventRaiderAppeared    EventKind = "raider_appeared"
	EventFrigateDeployed   EventKind = "frigate_deployed"
	EventFrigateTargeted   EventKind = "frigate_targeted"
	EventFrigateFired      EventKind = "frigate_fired"
	EventFrigateReturning  EventKind = "frigate_returning"
	EventFrigateIdle       EventKind = "frigate_idle"
	EventRaiderHit         EventKind = "raider_hit"
	EventRaiderDestroyed   EventKind = "raider_destroyed"
)

// Event 状态变化记录，发给订阅方并落日志库。
type Event struct {
	ID       string          `json:"id"`
	AtMs     int64           `json:"at_ms"`
	Kind     EventKind       `json:"kind"`
	ShipID   domain.ShipID   `json:"ship_id,omitempty"`
	RaiderID domain.RaiderID `json:"raider_id,omitempty"`
	Location domain.Location `json:"location,omitempty"`
	Detail   string          `json:"detail,omitempty"`
}

// outbox 有界，满了丢最旧的。
type outbox struct {
	buf     []Event
	limit   int
	dropped int
}

func (o *outbox) push(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if o.limit > 0 && len(o.buf) >= o.limit {
		o.buf = o.buf[1:]
		o.dropped++
	}
	o.buf = append(o.buf, e)
}

func (o *outbox) drain() []Event {
	out := o.buf
	o.buf = nil
	return out
}
