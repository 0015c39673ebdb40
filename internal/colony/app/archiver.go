package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"SpaceColony/internal/colony/app/port"
	"SpaceColony/internal/colony/entity"
	"SpaceColony/modules/kit/logx"
)

// SnapshotSource 提供在线模拟的快照，colony actor.Runtime 实现。
type SnapshotSource interface {
	ActiveSims(ctx context.Context) ([]string, error)
	Export(ctx context.Context, simID string) (*entity.SimulationPersistSnapshot, error)
}

// Archiver 按 cron 表达式把所有在线模拟导出成压缩归档。
type Archiver struct {
	src     SnapshotSource
	writer  port.ArchiveWriter
	log     logx.Logger
	timeout time.Duration
	cron    *cron.Cron
}

func NewArchiver(src SnapshotSource, w port.ArchiveWriter, log logx.Logger) *Archiver {
	if log == nil {
		log = logx.Nop()
	}
	return &Archiver{
		src:     src,
		writer:  w,
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Start spec 支持 "@every 10m" 这类描述符。
func (a *Archiver) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		a.RunOnce(ctx)
	}); err != nil {
		return err
	}
	a.cron = c
	c.Start()
	return nil
}

// Stop 等正在跑的归档结束。
func (a *Archiver) Stop() {
	if a.cron == nil {
		return
	}
	<-a.cron.Stop().Done()
}

// RunOnce 单个模拟失败不影响其它模拟，返回成功写出的份数。
func (a *Archiver) RunOnce(ctx context.Context) int {
	ids, err := a.src.ActiveSims(ctx)
	if err != nil {
		logx.ReportCommandWithLoggerContext(ctx, a.log, "colony.archive", err)
		return 0
	}
	written := 0
	for _, id := range ids {
		snap, err := a.src.Export(ctx, id)
		if err != nil {
			logx.ReportCommandWithLoggerContext(ctx, a.log, "colony.archive", err, zap.String("sim_id", id))
			continue
		}
		info, err := a.writer.Write(ctx, snap)
		if err != nil {
			logx.ReportCommandWithLoggerContext(ctx, a.log, "colony.archive", err, zap.String("sim_id", id))
			continue
		}
		written++
		a.log.Debug("colony archived",
			zap.String("sim_id", id),
			zap.String("path", info.Path),
			zap.Int("bytes", info.Bytes),
		)
	}
	return written
}
