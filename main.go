// Command kerf runs planar-geometry scripts: solids are built and cut into
// sections, the sections are combined with region algebra, and the results
// are summarised or exported for CNC toolpath work.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/kerf/pkg/config"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "kerf",
		Short:        "Slice solids into planar sections and export them",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kerf version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kerf %s\n", version)
		},
	}
}

type runOptions struct {
	configPath  string
	geojsonPath string
	dxfPath     string
	thickness   float64
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run script.lisp",
		Short: "Evaluate a script and print its sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.OutOrStdout(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML file with kernel tolerances")
	f.StringVar(&opts.geojsonPath, "geojson", "", "write all sections to this GeoJSON file")
	f.StringVar(&opts.dxfPath, "dxf", "", "write sections to this DXF file (one file per section when there are several)")
	f.Float64Var(&opts.thickness, "thickness", 0, "extrude preview meshes of this height and report their size")
	return cmd
}

func runScript(w io.Writer, path string, opts runOptions) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	app := NewApp(cfg)
	app.Thickness = opts.thickness
	res := app.Evaluate(string(source))
	for _, e := range res.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "error: %s:%d: %s\n", path, e.Line, e.Message)
		} else {
			fmt.Fprintf(w, "error: %s: %s\n", path, e.Message)
		}
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%s: evaluation failed with %d error(s)", path, len(res.Errors))
	}
	printSummary(w, res)

	if opts.geojsonPath != "" {
		if err := WriteGeoJSON(res, opts.geojsonPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", opts.geojsonPath)
	}
	if opts.dxfPath != "" {
		written, err := WriteDXF(res, opts.dxfPath)
		for _, p := range written {
			fmt.Fprintf(w, "wrote %s\n", p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printSummary(w io.Writer, res EvalResult) {
	for _, s := range res.Sections {
		fmt.Fprintf(w, "%-16s area=%-12.6g perimeter=%-12.6g outers=%d holes=%d\n",
			s.Name, s.Area, s.Perimeter, s.Outers, s.Holes)
	}
	for _, m := range res.Meshes {
		fmt.Fprintf(w, "%-16s preview vertices=%d triangles=%d\n",
			m.Section, len(m.Vertices)/3, len(m.Indices)/3)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}
}
