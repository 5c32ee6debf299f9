package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/aoyagi-dev/shiftboard/internal/adapters/http/handler"
	"github.com/aoyagi-dev/shiftboard/internal/adapters/notify"
	"github.com/aoyagi-dev/shiftboard/internal/adapters/repository/postgres"
	"github.com/aoyagi-dev/shiftboard/internal/core/branch"
	"github.com/aoyagi-dev/shiftboard/internal/core/employee"
	"github.com/aoyagi-dev/shiftboard/internal/core/schedule"
	"github.com/aoyagi-dev/shiftboard/internal/platform/config"
	pg "github.com/aoyagi-dev/shiftboard/internal/platform/db/postgres"
	"github.com/aoyagi-dev/shiftboard/internal/platform/logger"
	"github.com/aoyagi-dev/shiftboard/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	shiftRepo := postgres.NewShiftRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	branchRepo := postgres.NewBranchRepository(dbPool)
	submissionRepo := postgres.NewSubmissionRepository(dbPool)

	scheduleSvc := schedule.NewService(shiftRepo, employeeRepo, branchRepo, submissionRepo, nil, txManager)
	scheduleSvc.AddListener(notify.NewLoggingNotifier(zapLogger))

	employeeSvc := employee.NewService(employeeRepo)
	branchSvc := branch.NewService(branchRepo)

	httpServer := server.New(cfg.Server.ListenAddr,
		handler.NewScheduleHandler(scheduleSvc, nil, zapLogger),
		handler.NewDirectoryHandler(employeeSvc, branchSvc, zapLogger),
	)

	zapLogger.Info("http server listening", zap.String("addr", cfg.Server.ListenAddr))

	if err := httpServer.Run(ctx); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}
