package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/logger"
	"github.com/forumkit/forumkit/internal/router"
	"github.com/forumkit/forumkit/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Logging.Level, cfg.Public.Logging.JSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	r := router.New(deps)

	logger.Log.Info("server started", "addr", cfg.Public.Listen)
	if err := http.ListenAndServe(cfg.Public.Listen, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
