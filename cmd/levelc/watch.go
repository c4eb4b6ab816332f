package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/milk9111/levelc/prefabs"
	"github.com/spf13/cobra"
)

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if err := build(cfg, log); err != nil {
		log.Error("build failed", "err", err)
	}

	w, err := prefabs.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.AddTree(cfg.Project); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.Rules); err == nil {
		if err := w.AddTree(filepath.Dir(cfg.Rules)); err != nil {
			log.Warn("rules directory not watched", "rules", cfg.Rules, "err", err)
		}
	}
	log.Info("watching", "project", cfg.Project, "debounce", cfg.Debounce)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	timer := time.NewTimer(cfg.Debounce)
	timer.Stop()
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Debug("changed", "file", path)
			timer.Reset(cfg.Debounce)
		case err, ok := <-w.Errors:
			if ok {
				log.Warn("watch error", "err", err)
			}
		case <-timer.C:
			if err := build(cfg, log); err != nil {
				log.Error("build failed", "err", err)
			}
		case <-stop:
			return nil
		}
	}
}
