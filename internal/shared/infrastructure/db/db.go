package db

import (
	"SpaceColony/internal/shared/serverconfig"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"SpaceColony/internal/shared/logs"
)

func Open(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logs.NewGormLogger(logger.Warn, 200*time.Millisecond),
	}

	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	// username:password@protocol(address)/dbname?charset=utf8mb4&parseTime=True&loc=Local
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
	db, err := gorm.Open(mysql.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(max(1, cfg.MaxConn))
	sqlDB.SetMaxIdleConns(max(1, cfg.MaxIdle))

	logs.Info("open db success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
	return db, nil
}
