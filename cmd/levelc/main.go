package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/milk9111/levelc/config"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "levelc",
		Short: "Compile scene-based levels into flat level tables",
		Long: `levelc reads a project of level scenes and a tile set, composes every
section onto the fixed screen grid, resolves pipe connections between
sections and writes the result as a JSON bundle or a C++ source file.

Settings come from LEVELC_* environment variables (an optional .env file is
read first) and can be overridden with flags.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("project", "", "Scene project root (LEVELC_PROJECT)")
	rootCmd.PersistentFlags().String("rules", "", "Rules file layered over the defaults (LEVELC_RULES)")
	rootCmd.PersistentFlags().String("tileset", "", "Tile set scene, relative to the project (LEVELC_TILESET)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON (LEVELC_LOG_JSON)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages (LEVELC_VERBOSE)")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Compile every level scene and write the bundle",
		Args:  cobra.NoArgs,
		RunE:  runBuild,
	}
	addOutputFlags(buildCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever a scene, tile set, rules or script file changes",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	addOutputFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", 0, "Quiet period before a rebuild (LEVELC_DEBOUNCE)")

	inspectCmd := &cobra.Command{
		Use:   "inspect <scene>",
		Short: "Print the flattened node list of one scene",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	rootCmd.AddCommand(buildCmd, watchCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("levels", "", "Level scene directory, relative to the project (LEVELC_LEVELS)")
	cmd.Flags().StringP("out", "o", "", "Output file, - for stdout (LEVELC_OUT)")
	cmd.Flags().StringP("format", "f", "", "Output format: json|cpp (LEVELC_FORMAT)")
	cmd.Flags().Int("probe-steps", -1, "Spawn probe steps, 0 disables (LEVELC_PROBE_STEPS)")
}

// loadConfig reads the environment and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	cfg := config.Load()

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"project": &cfg.Project,
		"rules":   &cfg.Rules,
		"tileset": &cfg.TileSet,
		"levels":  &cfg.Levels,
		"out":     &cfg.Out,
		"format":  &cfg.Format,
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	if flags.Changed("probe-steps") {
		n, err := flags.GetInt("probe-steps")
		if err != nil {
			return cfg, err
		}
		cfg.ProbeSteps = max(n, 0)
	}
	if flags.Changed("debounce") {
		d, err := flags.GetDuration("debounce")
		if err != nil {
			return cfg, err
		}
		if d > 0 {
			cfg.Debounce = d
		}
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Verbose {
		opts.Level = slog.LevelDebug
	}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
