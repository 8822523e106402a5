// cmd/scrape/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"go.uber.org/zap"

	"chilislots/pkg/config"
	"chilislots/pkg/driver"
	"chilislots/pkg/engine"
	"chilislots/pkg/log"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional, defaults built in)")
	firstName := flag.String("first", "", "guest first name")
	lastName := flag.String("last", "", "guest last name")
	email := flag.String("email", "", "guest email")
	phone := flag.String("phone", "", "guest phone")
	targetDays := flag.Int("days", 0, "target day count (0 = maximum)")
	outputPath := flag.String("out", "", "path for JSON output (default stdout)")
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

	request := engine.ScrapeRequest{
		FirstName:  *firstName,
		LastName:   *lastName,
		Email:      *email,
		Phone:      *phone,
		TargetDays: *targetDays,
	}
	if err := request.Validate(); err != nil {
		log.L().Fatal("invalid_request", zap.Error(err))
	}

	browser, err := driver.NewChromeBrowser(context.Background(), cfg.Browser)
	if err != nil {
		log.L().Fatal("browser_start_failed", zap.Error(err))
	}
	defer browser.Close()

	outcome := engine.New(cfg, browser).Run(context.Background(), request)

	output := struct {
		Completed bool                       `json:"completed"`
		TotalDays int                        `json:"total_days"`
		Days      map[string]engine.DaySlots `json:"days"`
		Slots     []engine.SlotRef           `json:"slots"`
	}{
		Completed: outcome.Completed,
		TotalDays: outcome.Days.Len(),
		Days:      outcome.Days.ByDate(),
		Slots:     engine.Flatten(outcome.Days, cfg.Scrape.TimezoneLabel),
	}

	writer := os.Stdout
	if *outputPath != "" {
		outFile, createError := os.Create(*outputPath)
		if createError != nil {
			log.L().Fatal("output_create_failed", zap.String("path", *outputPath), zap.Error(createError))
		}
		defer outFile.Close()
		writer = outFile
	}
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		log.L().Fatal("output_write_failed", zap.Error(err))
	}
}
