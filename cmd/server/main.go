// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"go.uber.org/zap"

	"chilislots/pkg/api"
	"chilislots/pkg/config"
	"chilislots/pkg/driver"
	"chilislots/pkg/engine"
	"chilislots/pkg/log"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional, defaults built in)")
	listenAddr := flag.String("addr", "", "listen address override")
	prodLogging := flag.Bool("prod", false, "use production logging")
	flag.Parse()

	if err := log.Init(*prodLogging); err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.L().Fatal("config_load_failed", zap.String("path", *configPath), zap.Error(err))
		}
		cfg = loaded
	}
	if *listenAddr != "" {
		cfg.Server.Addr = *listenAddr
	}
	if len(cfg.Server.APIKeys) == 0 {
		log.L().Warn("auth_disabled_no_api_keys")
	}

	browser, err := driver.NewChromeBrowser(context.Background(), cfg.Browser)
	if err != nil {
		log.L().Fatal("browser_start_failed", zap.Error(err))
	}
	defer browser.Close()

	server := api.NewServer(cfg, engine.New(cfg, browser))
	log.L().Info("server_listening", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, server); err != nil {
		log.L().Fatal("server_failed", zap.Error(err))
	}
}
