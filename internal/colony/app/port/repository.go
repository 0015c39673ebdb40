package port

import (
	"SpaceColony/internal/colony/entity"
	"context"
)

// SimulationRepository 模拟状态的持久化。没有存档时 Load 返回 errx.ErrNotFound。
type SimulationRepository interface {
	Load(ctx context.Context, id entity.SimID) (*entity.SimulationPersistSnapshot, error)
	Save(ctx context.Context, s *entity.SimulationPersistSnapshot) error
}

// EventJournal 事件流水。
type EventJournal interface {
	Append(ctx context.Context, id entity.SimID, events []entity.Event) error
	Recent(ctx context.Context, id entity.SimID, limit int) ([]entity.Event, error)
	Close() error
}

// ArchiveWriter 周期性导出压缩快照。
type ArchiveWriter interface {
	Write(ctx context.Context, s *entity.SimulationPersistSnapshot) (ArchiveInfo, error)
}

type ArchiveInfo struct {
	Path   string
	Digest string
	Bytes  int
}
