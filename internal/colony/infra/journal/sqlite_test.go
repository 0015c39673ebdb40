package journal

import (
	"context"
	"path/filepath"
	"testing"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
)

func TestSQLiteJournal_追加后按顺序读回最近事件(t *testing.T) {
	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	batch := []entity.Event{
		{ID: "e1", AtMs: 1000, Kind: entity.EventShipLaunched, ShipID: 1},
		{ID: "e2", AtMs: 2000, Kind: entity.EventShipArrived, ShipID: 1, Location: domain.Moon},
		{ID: "e3", AtMs: 3000, Kind: entity.EventRaiderHit, RaiderID: 2, Detail: "1/3"},
	}
	if err := j.Append(ctx, "sim-a", batch); err != nil {
		t.Fatalf("append: %v", err)
	}
	// 重复 id 不应报错也不应重复写入
	if err := j.Append(ctx, "sim-a", batch[:1]); err != nil {
		t.Fatalf("append dup: %v", err)
	}
	if err := j.Append(ctx, "sim-b", []entity.Event{{ID: "x", AtMs: 5, Kind: entity.EventShipBuilt}}); err != nil {
		t.Fatalf("append other: %v", err)
	}

	got, err := j.Recent(ctx, "sim-a", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e2" || got[1].ID != "e3" {
		t.Fatalf("got=%+v", got)
	}
	if got[0].Location != domain.Moon || got[1].RaiderID != 2 || got[1].Detail != "1/3" {
		t.Fatalf("字段未还原: %+v", got)
	}

	all, err := j.Recent(ctx, "sim-a", 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len=%d", len(all))
	}
	if all[0].Location != domain.LocationNone {
		t.Fatalf("空 location 应还原为 None")
	}
}
