package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/milk9111/levelc/config"
	"github.com/milk9111/levelc/emit"
	"github.com/milk9111/levelc/levels"
	"github.com/milk9111/levelc/prefabs"
	"github.com/milk9111/levelc/scene"
	"github.com/milk9111/levelc/tileset"
	"github.com/spf13/cobra"
)

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	return build(cfg, log)
}

// build runs one full compilation and writes the bundle.
func build(cfg config.Config, log *slog.Logger) error {
	start := time.Now()

	rules, err := prefabs.LoadRules(cfg.Rules)
	if err != nil {
		return err
	}
	opts, err := rules.TileSetOptions()
	if err != nil {
		return err
	}
	tiles, err := tileset.ParseFile(projectPath(cfg, cfg.TileSet), opts)
	if err != nil {
		return fmt.Errorf("failed to read tile set: %w", err)
	}

	var script *prefabs.EntityScript
	if rules.EntityScript != "" {
		script, err = prefabs.LoadEntityScript(rules.EntityScript)
		if err != nil {
			return err
		}
	}

	project, err := scene.NewProject(cfg.Project, rules.MaxInheritDepth, log)
	if err != nil {
		return fmt.Errorf("failed to index project: %w", err)
	}
	compiler, err := levels.NewCompiler(project, tiles, rules, script, log)
	if err != nil {
		return err
	}

	b := compiler.Compile(levels.LevelScenes(project, cfg.Levels))
	if len(b.Levels) == 0 {
		log.Warn("no levels compiled", "dir", projectPath(cfg, cfg.Levels))
	}
	probe(b, cfg.ProbeSteps, log)

	if err := writeBundle(cfg, b, project); err != nil {
		return err
	}
	log.Info("build complete",
		"levels", len(b.Levels),
		"sections", len(b.Sections()),
		"out", cfg.Out,
		"format", cfg.Format,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// probe drops a test body from each spawn and warns about spawns that never
// come to rest on solid ground.
func probe(b *levels.Build, steps int, log *slog.Logger) {
	if steps <= 0 {
		return
	}
	for _, s := range b.Sections() {
		res := levels.ProbeSpawn(s, steps)
		if !res.Landed {
			log.Warn("spawn does not land", "section", s.Name(), "x", s.StartX, "y", s.StartY)
			continue
		}
		log.Debug("spawn lands", "section", s.Name(), "x", res.X, "y", res.Y)
	}
}

func writeBundle(cfg config.Config, b *levels.Build, project *scene.Project) error {
	var w io.Writer = os.Stdout
	if cfg.Out != "-" {
		if dir := filepath.Dir(cfg.Out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		f, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", cfg.Out, err)
		}
		defer f.Close()
		w = f
	}

	bw := bufio.NewWriter(w)
	var err error
	switch cfg.Format {
	case "cpp":
		err = emit.WriteCpp(bw, b)
	default:
		err = emit.WriteJSON(bw, b, project.ResPath)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func projectPath(cfg config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.Project, path)
}
