package main

import (
	"os"

	"github.com/charmbracelet/log"

	"pado/internal/config"
	"pado/internal/storage"
	"pado/internal/task"
	"pado/internal/ui"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pado"})

	configPath := config.ResolvePath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		logger.Fatal("failed to load config", "path", configPath, "err", err)
	}

	persist, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open storage", "path", cfg.DBPath, "err", err)
	}
	defer persist.Close()

	loaded, loadErr := persist.Load()
	if loadErr != nil {
		logger.Warn("stored tasks unreadable, starting empty", "err", loadErr)
	}

	tasks := task.NewStore()
	for _, t := range loaded {
		if err := tasks.Add(t); err != nil {
			logger.Warn("skipping duplicate stored task", "id", t.ID)
		}
	}

	if err := ui.Run(tasks, persist, cfg, loadErr); err != nil {
		logger.Fatal("error running program", "err", err)
	}
}
