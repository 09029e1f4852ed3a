package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/ConnectApp/internal/di"
)

func main() {
	mode := flag.String("mode", "server", "Режим запуска приложения: server или worker")
	flag.Parse()

	// bootstrap-логгер нужен до загрузки конфигурации
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	ctx := context.Background()

	application, err := di.BuildApp(ctx)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	log := application.LoggerIns()
	if err := application.Run(ctx, *mode); err != nil {
		log.Error("application run failed", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped gracefully")
}
