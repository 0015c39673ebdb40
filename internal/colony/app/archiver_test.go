package app

import (
	"context"
	"errors"
	"testing"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/infra/persistence/archive"
)

type fakeSource struct {
	sims map[string]*entity.Simulation
}

func (f *fakeSource) ActiveSims(context.Context) ([]string, error) {
	out := make([]string, 0, len(f.sims)+1)
	for id := range f.sims {
		out = append(out, id)
	}
	// 已经下线的模拟
	out = append(out, "gone")
	return out, nil
}

func (f *fakeSource) Export(_ context.Context, id string) (*entity.SimulationPersistSnapshot, error) {
	s, ok := f.sims[id]
	if !ok {
		return nil, errors.New("offline")
	}
	return s.Export(1), nil
}

func TestArchiver_RunOnce_跳过失败的模拟(t *testing.T) {
	rules := entity.DefaultRules()
	src := &fakeSource{sims: map[string]*entity.Simulation{
		"a": entity.NewSimulation("a", rules, 1_700_000_000_000),
		"b": entity.NewSimulation("b", rules, 1_700_000_000_000),
	}}
	dir := t.TempDir()
	a := NewArchiver(src, archive.NewWriter(dir, archive.CodecLZ4, 3), nil)

	if n := a.RunOnce(context.Background()); n != 2 {
		t.Fatalf("written=%d", n)
	}
}

func TestArchiver_Start_非法表达式(t *testing.T) {
	a := NewArchiver(&fakeSource{}, archive.NewWriter(t.TempDir(), archive.CodecZstd, 1), nil)
	if err := a.Start("not a cron"); err == nil {
		t.Fatalf("期望非法 cron 表达式报错")
	}
	a.Stop()
}
