package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"SpaceColony/internal/colony/app/port"
	"SpaceColony/internal/colony/entity"
	"SpaceColony/modules/kit/errx"
	"SpaceColony/modules/kit/logx"
)

const defaultFlushEvery = 3000 * time.Millisecond

type SimID = entity.SimID

// ColonyDC 模拟状态的数据中心：脏检查 + 版本化快照 + 异步写库。
// Load/Flush/Entity 只能在所属 actor 内调用；writerLoop 只碰快照拷贝。
type ColonyDC struct {
	repo       port.SimulationRepository
	rules      entity.Rules
	simOpts    []entity.Option
	entity     *entity.Simulation
	flushEvery time.Duration
	logger     logx.Logger

	mu      sync.Mutex
	pending *entity.SimulationPersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

type Option func(*ColonyDC)

func WithFlushEvery(d time.Duration) Option {
	return func(dc *ColonyDC) {
		if d > 0 {
			dc.flushEvery = d
		}
	}
}

func WithLogger(l logx.Logger) Option {
	return func(dc *ColonyDC) {
		if l != nil {
			dc.logger = l
		}
	}
}

// WithSimOptions 透传给 NewSimulation / Hydrate。
func WithSimOptions(opts ...entity.Option) Option {
	return func(dc *ColonyDC) {
		dc.simOpts = append(dc.simOpts, opts...)
	}
}

func NewColonyDC(repo port.SimulationRepository, rules entity.Rules, opts ...Option) *ColonyDC {
	d := &ColonyDC{
		repo:       repo,
		rules:      rules,
		flushEvery: defaultFlushEvery,
		logger:     logx.Nop(),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, o := range opts {
		o(d)
	}
	go d.writerLoop()
	return d
}

// Load 有存档则恢复，否则按规则新建；版本号从存档版本继续递增。
func (d *ColonyDC) Load(ctx context.Context, id SimID, nowMs int64) (*entity.Simulation, error) {
	if d.repo == nil {
		return nil, errors.New("simulation repository is nil")
	}
	snap, err := d.repo.Load(ctx, id)
	switch {
	case err == nil:
		sim, herr := entity.Hydrate(d.rules, snap, d.simOpts...)
		if herr != nil {
			return nil, errx.ErrInternal.WithCause(herr).WithData("sim_id", string(id))
		}
		d.mu.Lock()
		d.version = snap.Version
		d.mu.Unlock()
		d.entity = sim
	case errors.Is(err, errx.ErrNotFound):
		d.entity = entity.NewSimulation(id, d.rules, nowMs, d.simOpts...)
	default:
		return nil, err
	}
	return d.entity, nil
}

// Flush 把当前脏状态打成快照交给 writer，不阻塞。
func (d *ColonyDC) Flush(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return errors.New("simulation repository is nil")
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	d.enqueueLatest(s)
	return nil
}

// FlushSync 同步写库，用于需要立即落盘的场景（下线、测试）。
func (d *ColonyDC) FlushSync(ctx context.Context) error {
	if d.repo == nil {
		return errors.New("simulation repository is nil")
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	if err := d.repo.Save(ctx, s); err != nil {
		d.requeueOnError(s)
		return err
	}
	return nil
}

func (d *ColonyDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *ColonyDC) Entity() *entity.Simulation {
	return d.entity
}

func (d *ColonyDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Version 最近一次生成快照的版本号。
func (d *ColonyDC) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *ColonyDC) Close(ctx context.Context) error {
	_ = d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *ColonyDC) buildNextSnapshot() (*entity.SimulationPersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *ColonyDC) enqueueLatest(s *entity.SimulationPersistSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *ColonyDC) popPending() *entity.SimulationPersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError 关闭后仍允许重排，stop 分支会把它写完。
func (d *ColonyDC) requeueOnError(s *entity.SimulationPersistSnapshot) {
	d.mu.Lock()
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *ColonyDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 关闭阶段最多重试 3 次，避免存储不可用时卡死退出。
func (d *ColonyDC) consumePending(closing bool) {
	failures := 0
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		if err := d.repo.Save(context.Background(), s); err != nil {
			failures++
			d.logger.Error("colony snapshot save failed",
				zap.String("sim_id", string(s.SimID)),
				zap.Uint64("version", s.Version),
				zap.Int("failures", failures),
				zap.Error(err),
			)
			if closing && failures >= 3 {
				return
			}
			// 写库失败时重排当前快照；若已有更新快照，会被更高 version 覆盖。
			d.requeueOnError(s)
			time.Sleep(200 * time.Millisecond)
			continue
		}
		failures = 0
	}
}
