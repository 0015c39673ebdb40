package model

import "time"

// 每种实体一张表（mongo 里是同一文档下的数组），时间戳全部是 Unix 毫秒。

type SimRecord struct {
	SimID          string    `gorm:"column:sim_id;type:varchar(64);primaryKey;not null;" bson:"sim_id" json:"sim_id"`
	Version        uint64    `gorm:"column:version;type:bigint UNSIGNED;not null;" bson:"version" json:"version"`
	NowMs          int64     `gorm:"column:now_ms;type:bigint;not null;comment:模拟时间" bson:"now_ms" json:"now_ms"`
	ShipSeq        int64     `gorm:"column:ship_seq;type:bigint;not null;default:0;" bson:"ship_seq" json:"ship_seq"`
	Balance        float64   `gorm:"column:balance;type:double;not null;" bson:"balance" json:"balance"`
	Invested       float64   `gorm:"column:invested;type:double;not null;" bson:"invested" json:"invested"`
	InvestedAnchor float64   `gorm:"column:invested_anchor;type:double;not null;" bson:"invested_anchor" json:"invested_anchor"`
	AnchorMs       int64     `gorm:"column:anchor_ms;type:bigint;not null;comment:复利锚点" bson:"anchor_ms" json:"anchor_ms"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" bson:"updated_at" json:"updated_at"`
}

func (m *SimRecord) TableName() string {
	return "colony_sim"
}

type TimerRecord struct {
	SimID     string `gorm:"column:sim_id;type:varchar(64);primaryKey;" bson:"-" json:"-"`
	Name      string `gorm:"column:name;type:varchar(32);primaryKey;" bson:"name" json:"name"`
	NextDueMs int64  `gorm:"column:next_due_ms;type:bigint;not null;" bson:"next_due_ms" json:"next_due_ms"`
}

func (m *TimerRecord) TableName() string {
	return "colony_timer"
}

type LocationRecord struct {
	SimID      string  `gorm:"column:sim_id;type:varchar(64);primaryKey;" bson:"-" json:"-"`
	Location   string  `gorm:"column:location;type:varchar(32);primaryKey;" bson:"location" json:"location"`
	Colonized  bool    `gorm:"column:colonized;not null;" bson:"colonized" json:"colonized"`
	Population float64 `gorm:"column:population;type:double;not null;" bson:"population" json:"population"`
	Food       float64 `gorm:"column:food;type:double;not null;" bson:"food" json:"food"`
	Fuel       float64 `gorm:"column:fuel;type:double;not null;" bson:"fuel" json:"fuel"`
	Metal      float64 `gorm:"column:metal;type:double;not null;" bson:"metal" json:"metal"`
	Power      float64 `gorm:"column:power;type:double;not null;" bson:"power" json:"power"`
	RateFood   float64 `gorm:"column:rate_food;type:double;not null;comment:每小时" bson:"rate_food" json:"rate_food"`
	RateFuel   float64 `gorm:"column:rate_fuel;type:double;not null;" bson:"rate_fuel" json:"rate_fuel"`
	RateMetal  float64 `gorm:"column:rate_metal;type:double;not null;" bson:"rate_metal" json:"rate_metal"`
	RatePower  float64 `gorm:"column:rate_power;type:double;not null;" bson:"rate_power" json:"rate_power"`
}

func (m *LocationRecord) TableName() string {
	return "colony_location"
}

type ShipRecord struct {
	SimID        string  `gorm:"column:sim_id;type:varchar(64);primaryKey;" bson:"-" json:"-"`
	ShipID       int64   `gorm:"column:ship_id;type:bigint;primaryKey;" bson:"ship_id" json:"ship_id"`
	Type         string  `gorm:"column:type;type:varchar(16);not null;" bson:"type" json:"type"`
	State        string  `gorm:"column:state;type:varchar(16);not null;" bson:"state" json:"state"`
	Location     string  `gorm:"column:location;type:varchar(32);" bson:"location" json:"location"`
	DestLocation string  `gorm:"column:dest_location;type:varchar(32);" bson:"dest_location" json:"dest_location"`
	DestOp       string  `gorm:"column:dest_op;type:varchar(16);" bson:"dest_op" json:"dest_op"`
	CargoFood    float64 `gorm:"column:cargo_food;type:double;not null;" bson:"cargo_food" json:"cargo_food"`
	CargoFuel    float64 `gorm:"column:cargo_fuel;type:double;not null;" bson:"cargo_fuel" json:"cargo_fuel"`
	CargoMetal   float64 `gorm:"column:cargo_metal;type:double;not null;" bson:"cargo_metal" json:"cargo_metal"`
	Fuel         float64 `gorm:"column:fuel;type:double;not null;" bson:"fuel" json:"fuel"`
	People       int     `gorm:"column:people;type:int;not null;default:0;" bson:"people" json:"people"`

	Traveling       bool    `gorm:"column:traveling;not null;" bson:"traveling" json:"traveling"`
	TravelOrigin    string  `gorm:"column:travel_origin;type:varchar(32);" bson:"travel_origin" json:"travel_origin"`
	TravelDestLoc   string  `gorm:"column:travel_dest_location;type:varchar(32);" bson:"travel_dest_location" json:"travel_dest_location"`
	TravelDestOp    string  `gorm:"column:travel_dest_op;type:varchar(16);" bson:"travel_dest_op" json:"travel_dest_op"`
	DepartureMs     int64   `gorm:"column:departure_ms;type:bigint;comment:出发时间" bson:"departure_ms" json:"departure_ms"`
	TotalTravelTime float64 `gorm:"column:total_travel_time;type:double;comment:秒" bson:"total_travel_time" json:"total_travel_time"`

	CombatKind   string  `gorm:"column:combat_kind;type:varchar(32);not null;" bson:"combat_kind" json:"combat_kind"`
	CombatTarget int     `gorm:"column:combat_target;type:int;not null;default:0;" bson:"combat_target" json:"combat_target"`
	PosX         float64 `gorm:"column:pos_x;type:double;" bson:"pos_x" json:"pos_x"`
	PosY         float64 `gorm:"column:pos_y;type:double;" bson:"pos_y" json:"pos_y"`
	PosZ         float64 `gorm:"column:pos_z;type:double;" bson:"pos_z" json:"pos_z"`
	HasHome      bool    `gorm:"column:has_home;not null;" bson:"has_home" json:"has_home"`
	HomeX        float64 `gorm:"column:home_x;type:double;" bson:"home_x" json:"home_x"`
	HomeY        float64 `gorm:"column:home_y;type:double;" bson:"home_y" json:"home_y"`
	HomeZ        float64 `gorm:"column:home_z;type:double;" bson:"home_z" json:"home_z"`
	LastFiredMs  int64   `gorm:"column:last_fired_ms;type:bigint;" bson:"last_fired_ms" json:"last_fired_ms"`
}

func (m *ShipRecord) TableName() string {
	return "colony_ship"
}

type RaiderRecord struct {
	SimID     string  `gorm:"column:sim_id;type:varchar(64);primaryKey;" bson:"-" json:"-"`
	RaiderID  int     `gorm:"column:raider_id;type:int;primaryKey;" bson:"raider_id" json:"raider_id"`
	Route     string  `gorm:"column:route;type:varchar(32);not null;" bson:"route" json:"route"`
	HitCount  int     `gorm:"column:hit_count;type:int;not null;default:0;" bson:"hit_count" json:"hit_count"`
	Destroyed bool    `gorm:"column:destroyed;not null;" bson:"destroyed" json:"destroyed"`
	PosX      float64 `gorm:"column:pos_x;type:double;" bson:"pos_x" json:"pos_x"`
	PosY      float64 `gorm:"column:pos_y;type:double;" bson:"pos_y" json:"pos_y"`
	PosZ      float64 `gorm:"column:pos_z;type:double;" bson:"pos_z" json:"pos_z"`
}

func (m *RaiderRecord) TableName() string {
	return "colony_raider"
}

type StationRecord struct {
	SimID        string `gorm:"column:sim_id;type:varchar(64);primaryKey;" bson:"-" json:"-"`
	Location     string `gorm:"column:location;type:varchar(32);primaryKey;" bson:"location" json:"location"`
	DeployedAtMs int64  `gorm:"column:deployed_at_ms;type:bigint;not null;" bson:"deployed_at_ms" json:"deployed_at_ms"`
}

func (m *StationRecord) TableName() string {
	return "colony_station"
}

// Records 一个模拟的全部平铺记录。
type Records struct {
	Sim       SimRecord        `bson:"sim" json:"sim"`
	Timers    []TimerRecord    `bson:"timers" json:"timers"`
	Locations []LocationRecord `bson:"locations" json:"locations"`
	Ships     []ShipRecord     `bson:"ships" json:"ships"`
	Raiders   []RaiderRecord   `bson:"raiders" json:"raiders"`
	Stations  []StationRecord  `bson:"stations" json:"stations"`
}
