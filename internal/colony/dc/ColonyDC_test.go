package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
	"SpaceColony/internal/colony/infra/persistence/memory"
)

type flakyRepo struct {
	mu    sync.Mutex
	fails int
	saved []*entity.SimulationPersistSnapshot
}

func (r *flakyRepo) Load(ctx context.Context, id entity.SimID) (*entity.SimulationPersistSnapshot, error) {
	return nil, errors.New("not used")
}

func (r *flakyRepo) Save(ctx context.Context, s *entity.SimulationPersistSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails > 0 {
		r.fails--
		return errors.New("db down")
	}
	r.saved = append(r.saved, s)
	return nil
}

func (r *flakyRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("等待超时")
}

func TestColonyDC_无存档时新建_关闭时落盘_重新加载后状态一致(t *testing.T) {
	repo := memory.NewSimulationRepository()
	ctx := context.Background()

	d := NewColonyDC(repo, entity.DefaultRules())
	sim, err := d.Load(ctx, "sim-1", 1_000)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := sim.BuildShip(domain.CargoShip, domain.Home); err != nil {
		t.Fatalf("build: %v", err)
	}
	sim.Advance(11_000)

	closeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := d.Close(closeCtx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if repo.Saves() != 1 {
		t.Fatalf("saves=%d", repo.Saves())
	}

	d2 := NewColonyDC(repo, entity.DefaultRules())
	defer d2.Close(ctx)
	again, err := d2.Load(ctx, "sim-1", 11_000)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.NowMs() != 11_000 {
		t.Fatalf("now=%d", again.NowMs())
	}
	if again.View().Credits.Balance != sim.View().Credits.Balance {
		t.Fatalf("余额不一致 %v vs %v", again.View().Credits.Balance, sim.View().Credits.Balance)
	}
	if len(again.View().Ships) != 1 {
		t.Fatalf("ships=%d", len(again.View().Ships))
	}
	if d2.Version() != 1 {
		t.Fatalf("版本应从存档继续，got=%d", d2.Version())
	}
}

func TestColonyDC_不脏时Flush不写库(t *testing.T) {
	repo := memory.NewSimulationRepository()
	ctx := context.Background()
	d := NewColonyDC(repo, entity.DefaultRules())
	defer d.Close(ctx)

	if _, err := d.Load(ctx, "sim-2", 0); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := d.FlushSync(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := d.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if d.IsDirty() {
		t.Fatalf("flush 后不应再脏")
	}
	if repo.Saves() != 1 {
		t.Fatalf("saves=%d", repo.Saves())
	}
}

func TestColonyDC_写库失败会重排并最终写入(t *testing.T) {
	repo := &flakyRepo{fails: 2}
	d := NewColonyDC(repo, entity.DefaultRules())
	d.entity = entity.NewSimulation("sim-3", entity.DefaultRules(), 0)

	if err := d.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	waitFor(t, func() bool { return repo.count() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
}
