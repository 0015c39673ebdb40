package memory

import (
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/infra/persistence/mapper"
	"SpaceColony/internal/colony/infra/persistence/model"
	"SpaceColony/modules/kit/errx"
	"context"
	"sync"
)

// SimulationRepository 进程内存储，开发和测试用。存平铺记录，和真实存储走同一套映射。
type SimulationRepository struct {
	mu    sync.RWMutex
	data  map[entity.SimID]*model.Records
	saves int
}

func NewSimulationRepository() *SimulationRepository {
	return &SimulationRepository{data: make(map[entity.SimID]*model.Records)}
}

func (r *SimulationRepository) Load(ctx context.Context, id entity.SimID) (*entity.SimulationPersistSnapshot, error) {
	_ = ctx
	r.mu.RLock()
	recs, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errx.ErrNotFound.WithData("sim_id", string(id))
	}
	return mapper.RecordsToSnapshot(recs)
}

func (r *SimulationRepository) Save(ctx context.Context, s *entity.SimulationPersistSnapshot) error {
	_ = ctx
	if s == nil {
		return nil
	}
	recs := mapper.SnapshotToRecords(s)
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.data[s.SimID]; ok && cur.Sim.Version >= s.Version {
		return nil
	}
	r.data[s.SimID] = recs
	r.saves++
	return nil
}

// Saves 实际写入次数。
func (r *SimulationRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// IDs 已存档的模拟，归档任务遍历用。
func (r *SimulationRepository) IDs() []entity.SimID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.SimID, 0, len(r.data))
	for id := range r.data {
		out = append(out, id)
	}
	return out
}
