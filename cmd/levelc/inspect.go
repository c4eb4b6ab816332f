package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/milk9111/levelc/prefabs"
	"github.com/milk9111/levelc/scene"
	"github.com/spf13/cobra"
)

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	rules, err := prefabs.LoadRules(cfg.Rules)
	if err != nil {
		return err
	}
	project, err := scene.NewProject(cfg.Project, rules.MaxInheritDepth, log)
	if err != nil {
		return err
	}
	path := args[0]
	if resolved, err := project.Resolve(path); err == nil {
		path = resolved
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Project, path)
	}

	sc, err := project.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s uid=%s music=%s\n", project.ResPath(sc.File), sc.UID, sc.Music())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tTYPE\tINSTANCE\tPOSITION\tTILES")
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		pos := "-"
		if n.Position.Set {
			pos = fmt.Sprintf("(%g, %g)", n.Position.V.X, n.Position.V.Y)
		}
		tiles := "-"
		if n.TileData.Set {
			tiles = fmt.Sprintf("%d chars", len(n.TileData.V))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.Path(), n.Type, n.Instance.Or("-"), pos, tiles)
	}
	return tw.Flush()
}
