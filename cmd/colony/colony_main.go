package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	colonyactor "SpaceColony/internal/colony/actor"
	"SpaceColony/internal/colony/actors"
	"SpaceColony/internal/colony/app"
	"SpaceColony/internal/colony/app/port"
	"SpaceColony/internal/colony/clock"
	"SpaceColony/internal/colony/infra/journal"
	"SpaceColony/internal/colony/infra/persistence/archive"
	"SpaceColony/internal/colony/infra/persistence/memory"
	colonymongo "SpaceColony/internal/colony/infra/persistence/mongodb"
	colonymysql "SpaceColony/internal/colony/infra/persistence/mysql"
	"SpaceColony/internal/colony/interfaces"
	"SpaceColony/internal/colony/interfaces/handler"
	colonyconfig "SpaceColony/internal/shared/gameconfig/colony"
	"SpaceColony/internal/shared/infrastructure/db"
	sharedmongo "SpaceColony/internal/shared/infrastructure/mongo"
	"SpaceColony/internal/shared/logs"
	"SpaceColony/internal/shared/serverconfig"
	"SpaceColony/internal/shared/transport/grpc"
	transporthttp "SpaceColony/internal/shared/transport/http"
	"SpaceColony/internal/shared/transport/ws"
	"SpaceColony/internal/shared/utils"
	"SpaceColony/modules/kit/logx"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，缺省时向上查找 configs/conf.yml")
	flag.Parse()

	if err := serverconfig.Load(*cfgPath, func(c serverconfig.Config) {
		logs.SetLevel(c.Log.Level)
	}); err != nil {
		panic(err)
	}
	conf := serverconfig.Get()
	if err := logs.Init("colony", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	rules, err := colonyconfig.Load(conf.Logic.GameConfig)
	if err != nil {
		logs.Fatal("load colony gameconfig failed", zap.Error(err))
	}

	repo, closeRepo, err := openRepository(conf)
	if err != nil {
		logs.Fatal("open simulation repository failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeRepo()

	eventJournal, err := openJournal(conf.Journal)
	if err != nil {
		logs.Fatal("open event journal failed", zap.Error(err))
	}
	defer func() {
		_ = eventJournal.Close()
	}()

	idGen, err := utils.IDGen(int64(conf.Logic.ServerID))
	if err != nil {
		logs.Fatal("init id generator failed", zap.Error(err))
	}

	baseLogger := logx.NewZapLogger(logs.Logger())
	runtime := colonyactor.NewRuntime(actors.Deps{
		Repo:       repo,
		Journal:    eventJournal,
		Rules:      rules,
		Clock:      clock.Real(),
		IDGen:      idGen,
		Logger:     baseLogger,
		TickEvery:  time.Duration(conf.Colony.TickMs) * time.Millisecond,
		FlushEvery: time.Duration(conf.Storage.FlushEveryMs) * time.Millisecond,
	}, time.Duration(conf.Colony.AskTimeoutMs)*time.Millisecond)

	var archiver *app.Archiver
	if conf.Archive.Enabled {
		archiver = app.NewArchiver(runtime, archive.NewWriter(conf.Archive.Dir, archive.Codec(conf.Archive.Codec), conf.Archive.Keep), baseLogger)
		if err := archiver.Start(conf.Archive.Spec); err != nil {
			logs.Fatal("start archive cron failed", zap.String("spec", conf.Archive.Spec), zap.Error(err))
		}
	}

	colonyModule := interfaces.New(runtime, handler.Options{
		NeedAuth: conf.Colony.NeedAuth,
		IsDev:    conf.Colony.IsDev,
	}, baseLogger)

	host := conf.Colony.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.Colony.Port)

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		colonyModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpModules := []transporthttp.Registrar{
		colonyModule,
	}
	api := httpServer.Group().Group("/api/v1")
	for _, m := range httpModules {
		m.HttpRegister(api)
	}

	wsServer := ws.NewServer(wsRouter, baseLogger,
		ws.WithSecret(conf.Colony.NeedSecret),
		ws.WithRateLimit(conf.Colony.CommandRate, conf.Colony.CommandBurst),
	)
	httpServer.Engine().Any(conf.Colony.WsPath, gin.WrapH(wsServer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("colony server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	grpcServer, health := grpc.NewServer()
	if conf.Colony.GrpcPort > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, conf.Colony.GrpcPort))
		if err != nil {
			logs.Fatal("listen grpc failed", zap.Error(err))
		}
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("colony grpc serve failed: %w", err)
			}
		}()
		health.SetServingStatus(grpc.ColonyServiceName, healthpb.HealthCheckResponse_SERVING)
		health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}
	logs.Info("colony server started",
		zap.String("addr", addr),
		zap.String("ws_path", conf.Colony.WsPath),
		zap.Int("grpc_port", conf.Colony.GrpcPort),
		zap.String("storage", conf.Storage.Driver),
	)

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	if archiver != nil {
		archiver.Stop()
	}
	// 停掉所有模拟 actor，各自做最后一次落盘
	runtime.Shutdown()
}

func openRepository(conf serverconfig.Config) (port.SimulationRepository, func(), error) {
	switch conf.Storage.Driver {
	case "mongodb":
		client, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		repo := colonymongo.NewSimulationRepository(client.Database(conf.MongoDB.Database), conf.MongoDB.Collection)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	case "mysql":
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := colonymysql.NewSimulationRepo(gdb)
		if conf.MySQL.AutoMigrate {
			if err := repo.AutoMigrate(); err != nil {
				return nil, nil, err
			}
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closeFn, nil
	case "memory":
		return memory.NewSimulationRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

func openJournal(cfg serverconfig.JournalConfig) (port.EventJournal, error) {
	if !cfg.Enabled {
		return journal.NewNoopJournal(), nil
	}
	path := cfg.Path
	if path == "" {
		path = "colony_events.db"
	}
	return journal.NewSQLiteJournal(path)
}
