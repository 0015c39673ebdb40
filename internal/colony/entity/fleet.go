package entity

import (
	"slices"

	"SpaceColony/internal/colony/entity/domain"
)

// FleetRegistry 按 ID 索引船只，遍历顺序固定为 ID 升序。
type FleetRegistry struct {
	ships map[domain.ShipID]*domain.Ship
	order []domain.ShipID
}

func NewFleetRegistry() *FleetRegistry {
	return &FleetRegistry{ships: make(map[domain.ShipID]*domain.Ship)}
}

func (f *FleetRegistry) Get(id domain.ShipID) (*domain.Ship, bool) {
	s, ok := f.ships[id]
	return s, ok
}

func (f *FleetRegistry) Add(s *domain.Ship) {
	if _, ok := f.ships[s.ID]; ok {
		f.ships[s.ID] = s
		return
	}
	f.ships[s.ID] = s
	i, _ := slices.BinarySearch(f.order, s.ID)
	f.order = slices.Insert(f.order, i, s.ID)
}

func (f *FleetRegistry) Remove(id domain.ShipID) {
	if _, ok := f.ships[id]; !ok {
		return
	}
	delete(f.ships, id)
	if i, found := slices.BinarySearch(f.order, id); found {
		f.order = slices.Delete(f.order, i, i+1)
	}
}

func (f *FleetRegistry) Len() int {
	return len(f.order)
}

// Each 按 ID 升序遍历，fn 返回 false 时停止。遍历中不要增删。
func (f *FleetRegistry) Each(fn func(s *domain.Ship) bool) {
	for _, id := range f.order {
		if !fn(f.ships[id]) {
			return
		}
	}
}

// Snapshot 深拷贝
func (f *FleetRegistry) Snapshot() []domain.Ship {
	out := make([]domain.Ship, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.ships[id].Clone())
	}
	return out
}

// docked 取一艘停靠中的船，供各指令做公共守卫。
func (f *FleetRegistry) docked(id domain.ShipID) (*domain.Ship, error) {
	s, ok := f.ships[id]
	if !ok {
		return nil, reject(ReasonShipNotFound)
	}
	if s.State != domain.Docked {
		return nil, reject(ReasonShipNotDocked)
	}
	return s, nil
}
