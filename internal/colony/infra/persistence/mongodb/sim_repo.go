package mongodb

import (
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/infra/persistence/mapper"
	"SpaceColony/internal/colony/infra/persistence/model"
	"SpaceColony/modules/kit/errx"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "colony_sim"

// SimDoc 一个模拟一个文档，子实体是平铺记录数组。
type SimDoc struct {
	ID            string `bson:"_id"`
	model.Records `bson:",inline"`
}

type SimulationRepository struct {
	coll *mongo.Collection
}

func NewSimulationRepository(db *mongo.Database, collection string) *SimulationRepository {
	if collection == "" {
		collection = defaultCollectionName
	}
	return &SimulationRepository{
		coll: db.Collection(collection),
	}
}

const OpLoad = "repo.mongodb.LoadSimulation"

func (r *SimulationRepository) Load(ctx context.Context, id entity.SimID) (*entity.SimulationPersistSnapshot, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb colony collection is nil")
	}

	var doc SimDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	switch {
	case err == nil:
		doc.Records.Sim.SimID = doc.ID
		return mapper.RecordsToSnapshot(&doc.Records)
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, errx.ErrNotFound.WithData("sim_id", string(id))
	default:
		return nil, errx.ErrUnavailable.WithData("op", OpLoad).WithCause(err)
	}
}

const OpSave = "repo.mongodb.SaveSimulation"

// Save 按 version 做乐观覆盖：库里版本更新时不回写旧快照。
func (r *SimulationRepository) Save(ctx context.Context, s *entity.SimulationPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb colony collection is nil")
	}

	recs := mapper.SnapshotToRecords(s)
	recs.Sim.UpdatedAt = time.Now()
	doc := SimDoc{ID: string(s.SimID), Records: *recs}

	filter := bson.M{
		"_id": doc.ID,
		"$or": bson.A{
			bson.M{"sim.version": bson.M{"$lt": s.Version}},
			bson.M{"sim.version": bson.M{"$exists": false}},
		},
	}
	_, err := r.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// 库里已经是更新的版本
		return nil
	}
	if err != nil {
		return errx.ErrUnavailable.WithData("op", OpSave).WithData("sim_id", doc.ID).WithCause(err)
	}
	return nil
}
