package mysql

import (
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/infra/persistence/mapper"
	"SpaceColony/internal/colony/infra/persistence/model"
	"SpaceColony/modules/kit/errx"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SimulationRepo struct {
	db *gorm.DB
}

func NewSimulationRepo(db *gorm.DB) *SimulationRepo {
	return &SimulationRepo{db: db}
}

func (r *SimulationRepo) WithTx(tx *gorm.DB) *SimulationRepo {
	return &SimulationRepo{db: tx}
}

// AutoMigrate 开发环境建表。
func (r *SimulationRepo) AutoMigrate() error {
	return r.db.AutoMigrate(
		&model.SimRecord{},
		&model.TimerRecord{},
		&model.LocationRecord{},
		&model.ShipRecord{},
		&model.RaiderRecord{},
		&model.StationRecord{},
	)
}

const OpLoad = "repo.mysql.LoadSimulation"

func (r *SimulationRepo) Load(ctx context.Context, id entity.SimID) (*entity.SimulationPersistSnapshot, error) {
	var recs model.Records
	db := r.db.WithContext(ctx)

	err := db.Where("sim_id = ?", string(id)).First(&recs.Sim).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errx.ErrNotFound.WithData("sim_id", string(id))
	default:
		return nil, wrapInfra(OpLoad, id, err)
	}

	q := func(dst any, order string) error {
		return db.Where("sim_id = ?", string(id)).Order(order).Find(dst).Error
	}
	if err := q(&recs.Timers, "name"); err != nil {
		return nil, wrapInfra(OpLoad, id, err)
	}
	if err := q(&recs.Locations, "location"); err != nil {
		return nil, wrapInfra(OpLoad, id, err)
	}
	if err := q(&recs.Ships, "ship_id"); err != nil {
		return nil, wrapInfra(OpLoad, id, err)
	}
	if err := q(&recs.Raiders, "raider_id"); err != nil {
		return nil, wrapInfra(OpLoad, id, err)
	}
	if err := q(&recs.Stations, "location"); err != nil {
		return nil, wrapInfra(OpLoad, id, err)
	}
	return mapper.RecordsToSnapshot(&recs)
}

const OpSave = "repo.mysql.SaveSimulation"

// Save 一个事务里整体替换：主记录 upsert，子表先删后插。
func (r *SimulationRepo) Save(ctx context.Context, s *entity.SimulationPersistSnapshot) error {
	if s == nil {
		return nil
	}
	recs := mapper.SnapshotToRecords(s)
	recs.Sim.UpdatedAt = time.Now()
	id := recs.Sim.SimID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.SimRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("sim_id = ?", id).First(&cur).Error
		if err == nil && cur.Version >= recs.Sim.Version {
			return nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Save(&recs.Sim).Error; err != nil {
			return err
		}
		return replaceChildren(tx, id, recs)
	})
	if err != nil {
		return wrapInfra(OpSave, s.SimID, err)
	}
	return nil
}

func replaceChildren(tx *gorm.DB, id string, recs *model.Records) error {
	children := []struct {
		model any
		rows  any
		n     int
	}{
		{&model.TimerRecord{}, &recs.Timers, len(recs.Timers)},
		{&model.LocationRecord{}, &recs.Locations, len(recs.Locations)},
		{&model.ShipRecord{}, &recs.Ships, len(recs.Ships)},
		{&model.RaiderRecord{}, &recs.Raiders, len(recs.Raiders)},
		{&model.StationRecord{}, &recs.Stations, len(recs.Stations)},
	}
	for _, c := range children {
		if err := tx.Where("sim_id = ?", id).Delete(c.model).Error; err != nil {
			return err
		}
		if c.n == 0 {
			continue
		}
		if err := tx.Create(c.rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func wrapInfra(op string, id entity.SimID, err error) error {
	return errx.ErrUnavailable.WithDataMap(map[string]any{"op": op, "sim_id": string(id)}).WithCause(err)
}
