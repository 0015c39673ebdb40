package domain

import "fmt"

type ShipID int64

// ShipType 船型
type ShipType int8

const (
	ShipTypeNone ShipType = iota
	ColonyShip
	CargoShip
	StationShip
	FrigateShip
)

var ShipTypes = [...]ShipType{ColonyShip, CargoShip, StationShip, FrigateShip}

// MaxPeople 殖民船最多载员
const MaxPeople = 50

func (t ShipType) Valid() bool {
	return t >= ColonyShip && t <= FrigateShip
}

// Capacity 货物 + 燃料 的总上限。空间站船不能装任何东西。
func (t ShipType) Capacity() float64 {
	switch t {
	case ColonyShip:
		return 12
	case CargoShip, FrigateShip:
		return 15
	default:
		return 0
	}
}

func (t ShipType) String() string {
	switch t {
	case ColonyShip:
		return "colony"
	case CargoShip:
		return "cargo"
	case StationShip:
		return "station"
	case FrigateShip:
		return "frigate"
	default:
		return "none"
	}
}

func ParseShipType(s string) (ShipType, error) {
	for _, t := range ShipTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return ShipTypeNone, fmt.Errorf("unknown ship type %q", s)
}

// ShipState 船的生命周期状态；Docked 时 Ship.Location 才有意义。
type ShipState int8

const (
	Docked ShipState = iota
	Preparing
	Traveling
)

func (s ShipState) String() string {
	switch s {
	case Docked:
		return "docked"
	case Preparing:
		return "preparing"
	case Traveling:
		return "traveling"
	default:
		return "unknown"
	}
}

// Operation 是就地执行的动作目的地。
type Operation int8

const (
	OpNone Operation = iota
	OpColonize
	OpOffload
	OpLand
)

var Operations = [...]Operation{OpColonize, OpOffload, OpLand}

func (o Operation) String() string {
	switch o {
	case OpColonize:
		return "colonize"
	case OpOffload:
		return "offload"
	case OpLand:
		return "land"
	default:
		return ""
	}
}

// Destination 要么是具体地点，要么是动作标签，二者互斥。
type Destination struct {
	Location Location  `json:"location,omitempty"`
	Op       Operation `json:"op,omitempty"`
}

func ToLocation(l Location) Destination {
	return Destination{Location: l}
}

func ToOperation(op Operation) Destination {
	return Destination{Op: op}
}

func (d Destination) IsSet() bool {
	return d.Location.Valid() || d.Op != OpNone
}

func (d Destination) IsOperation() bool {
	return d.Op != OpNone
}

func (d Destination) String() string {
	if d.Op != OpNone {
		return d.Op.String()
	}
	if d.Location.Valid() {
		return d.Location.String()
	}
	return ""
}

func ParseDestination(s string) (Destination, error) {
	if s == "" {
		return Destination{}, nil
	}
	for _, op := range Operations {
		if op.String() == s {
			return ToOperation(op), nil
		}
	}
	l, err := ParseLocation(s)
	if err != nil {
		return Destination{}, fmt.Errorf("unknown destination %q", s)
	}
	return ToLocation(l), nil
}

// TravelOrder 只在 Traveling 期间存在，时间用绝对毫秒时间戳。
type TravelOrder struct {
	Origin          Location    `json:"origin"`
	Destination     Destination `json:"destination"`
	DepartureMs     int64       `json:"departure_ms"`
	TotalTravelTime float64     `json:"total_travel_time"` // 秒
}

// Due 到达判定：now − departure ≥ total
func (o TravelOrder) Due(nowMs int64) bool {
	return float64(nowMs-o.DepartureMs) >= o.TotalTravelTime*1000
}

type CombatKind int8

const (
	CombatIdle CombatKind = iota
	CombatPatrolling
	CombatAttacking
	CombatReturning
)

func (k CombatKind) String() string {
	switch k {
	case CombatIdle:
		return "idle"
	case CombatPatrolling:
		return "deployed_patrolling"
	case CombatAttacking:
		return "attacking"
	case CombatReturning:
		return "returning_home"
	default:
		return "unknown"
	}
}

// CombatState 只对护卫舰有意义；Target 仅在 Attacking 时非零。
type CombatState struct {
	Kind   CombatKind `json:"kind"`
	Target RaiderID   `json:"target,omitempty"`
}

type Ship struct {
	ID          ShipID       `json:"id"`
	Type        ShipType     `json:"type"`
	State       ShipState    `json:"state"`
	Location    Location     `json:"location"`
	Destination Destination  `json:"destination"`
	Cargo       Cargo        `json:"cargo"`
	Fuel        float64      `json:"fuel"`
	People      int          `json:"people"`
	Travel      *TravelOrder `json:"travel,omitempty"`

	Combat       CombatState `json:"combat"`
	Position     Vec3        `json:"position"`
	HomePosition *Vec3       `json:"home_position,omitempty"`
	LastFiredMs  int64       `json:"last_fired_ms,omitempty"`
}

// Load 货物 + 燃料
func (s *Ship) Load() float64 {
	return s.Cargo.Sum() + s.Fuel
}

// Fits 判断再装入 extra 后是否仍在容量内。
func (s *Ship) Fits(extra float64) bool {
	return s.Load()+extra <= s.Type.Capacity()
}

func (s *Ship) Clone() *Ship {
	if s == nil {
		return nil
	}
	c := *s
	if s.Travel != nil {
		t := *s.Travel
		c.Travel = &t
	}
	if s.HomePosition != nil {
		h := *s.HomePosition
		c.HomePosition = &h
	}
	return &c
}

func ParseShipState(s string) (ShipState, error) {
	for _, st := range [...]ShipState{Docked, Preparing, Traveling} {
		if st.String() == s {
			return st, nil
		}
	}
	return Docked, fmt.Errorf("unknown ship state %q", s)
}

// ParseOperation 空串表示没有动作。
func ParseOperation(s string) (Operation, error) {
	if s == "" {
		return OpNone, nil
	}
	for _, op := range Operations {
		if op.String() == s {
			return op, nil
		}
	}
	return OpNone, fmt.Errorf("unknown operation %q", s)
}

func ParseCombatKind(s string) (CombatKind, error) {
	for _, k := range [...]CombatKind{CombatIdle, CombatPatrolling, CombatAttacking, CombatReturning} {
		if k.String() == s {
			return k, nil
		}
	}
	return CombatIdle, fmt.Errorf("unknown combat state %q", s)
}
