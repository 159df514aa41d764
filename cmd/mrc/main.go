// Command mrc generates a miss ratio curve, via the Kosmo single-pass
// algorithm, a MiniSim brute-force run, or both side by side against the
// same sampled trace pass, optionally sampled with SHARDS, and optionally
// scored against an accurate reference curve.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kosmomrc/kosmo"
)

var (
	path          string
	wss           uint64
	kosmoPolicy   string
	minisimPolicy string
	shardsRate    float64
	shardsSize    int
	runType       string
	outputPath    string
	accuratePath  string
	figurePath    string
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "mrc",
	Short: "Generate a miss ratio curve",
	Run:   run,
}

func init() {
	rootCmd.Flags().StringVar(&path, "path", "", "path to the binary trace file")
	rootCmd.Flags().Uint64Var(&wss, "wss", 0, "working set size in bytes, from the wss tool")
	rootCmd.Flags().StringVar(&kosmoPolicy, "kosmo-policy", "", "run Kosmo with this eviction policy (lru, fifo, lfu, lrfu, 2q)")
	rootCmd.Flags().StringVar(&minisimPolicy, "minisim-policy", "", "also run MiniSim with this eviction policy, sharing the same trace pass and sampling decisions as Kosmo")
	rootCmd.Flags().Float64Var(&shardsRate, "shards-t", 0, "SHARDS fixed sampling rate in (0,1]; 0 disables sampling")
	rootCmd.Flags().IntVar(&shardsSize, "shards-s", 0, "SHARDS fixed sample size; 0 disables fixed-size sampling")
	rootCmd.Flags().StringVar(&runType, "run-type", "throughput", "throughput or memory")
	rootCmd.Flags().StringVar(&outputPath, "output-path", "", "output CSV path (required; suffixed per algorithm when both are enabled)")
	rootCmd.Flags().StringVar(&accuratePath, "accurate-path", "", "accurate reference CSV, for MAE reporting")
	rootCmd.Flags().StringVar(&figurePath, "figure", "mrc.pdf", "output PDF path for the rendered curve(s)")
	rootCmd.Flags().StringVar(&logLevel, "log", "info", "log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// labeledSim pairs one algorithm's Simulator and Grid with the name used
// to distinguish its output when both Kosmo and MiniSim run in the same
// invocation.
type labeledSim struct {
	label string
	sim   kosmo.Simulator
	grid  *kosmo.Grid
}

// namedCurve is a labeledSim's finished (size, miss ratio) curve.
type namedCurve struct {
	label string
	curve []kosmo.Point
}

func run(cmd *cobra.Command, args []string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
	log := logrus.StandardLogger()

	if path == "" {
		logrus.Fatal("--path is required")
	}
	if wss == 0 {
		logrus.Fatal("--wss is required and must be nonzero")
	}
	if outputPath == "" {
		logrus.Fatal("--output-path is required")
	}
	if kosmoPolicy == "" && minisimPolicy == "" {
		logrus.Fatal("at least one of --kosmo-policy or --minisim-policy must be set")
	}

	var shards *kosmo.Shards
	switch {
	case shardsRate > 0 && shardsSize > 0:
		logrus.Fatal("--shards-t and --shards-s are mutually exclusive")
	case shardsRate > 0:
		shards = kosmo.NewFixedRate(shardsRate)
		log.WithField("rate", shardsRate).Info("SHARDS fixed-rate sampling enabled")
	case shardsSize > 0:
		shards = kosmo.NewFixedSize(shardsSize)
		log.WithField("size", shardsSize).Info("SHARDS fixed-size sampling enabled")
	}

	// Both Kosmo and MiniSim, when enabled together, get their own Grid
	// (each tracks its own hit/miss counters) but are driven by one
	// shared trace pass and one shared Shards instance below, so they
	// see the identical admitted sequence and the identical sampling
	// decisions (spec.md §5).
	var active []labeledSim
	if kosmoPolicy != "" {
		policy, err := kosmo.ParsePolicy(kosmoPolicy)
		if err != nil {
			logrus.Fatalf("parsing kosmo policy: %v", err)
		}
		grid := kosmo.NewGrid(wss)
		active = append(active, labeledSim{label: "kosmo", sim: kosmo.NewKosmo(policy, grid), grid: grid})
	}
	if minisimPolicy != "" {
		policy, err := kosmo.ParsePolicy(minisimPolicy)
		if err != nil {
			logrus.Fatalf("parsing minisim policy: %v", err)
		}
		grid := kosmo.NewGrid(wss)
		active = append(active, labeledSim{label: "minisim", sim: kosmo.NewMiniSim(policy, grid), grid: grid})
	}

	sims := make([]kosmo.Simulator, len(active))
	for i, a := range active {
		sims[i] = a.sim
	}

	var processed uint64
	switch runType {
	case "throughput":
		processed, err = kosmo.RunThroughput(path, sims, shards, log)
		if err != nil {
			logrus.Fatalf("running simulation: %v", err)
		}
	case "memory":
		var rss uint64
		processed, rss, err = kosmo.RunMemory(path, sims, shards, 1_000_000, log)
		if err != nil {
			logrus.Fatalf("running simulation: %v", err)
		}
		log.WithField("rss_bytes", rss).Info("peak memory high-water mark")
	default:
		logrus.Fatalf("unknown --run-type %q", runType)
	}
	log.WithField("accesses", processed).Info("simulation complete")

	if shards != nil {
		delta := shards.Correction()
		for _, a := range active {
			a.grid.SetCorrection(delta)
		}
		log.WithField("delta", delta).Info("applied SHARDS correction term")
	}

	var reference []kosmo.Point
	if accuratePath != "" {
		af, err := os.Open(accuratePath)
		if err != nil {
			logrus.Fatalf("opening accurate reference: %v", err)
		}
		reference, err = kosmo.ReadAccurateCSV(af)
		af.Close()
		if err != nil {
			logrus.Fatalf("reading accurate reference: %v", err)
		}
	}

	curves := make([]namedCurve, len(active))
	for i, a := range active {
		curves[i] = namedCurve{label: a.label, curve: kosmo.Curve(a.grid)}
	}

	for _, nc := range curves {
		outPath := outputPath
		if len(curves) > 1 {
			// Both algorithms enabled: keep their curves apart rather
			// than interleaving two label columns into one CSV.
			outPath = outputPath + "." + nc.label
		}
		if err := writeCurveFile(outPath, nc.curve); err != nil {
			logrus.Fatalf("writing curve: %v", err)
		}

		if reference != nil {
			mae, err := kosmo.MAE(nc.curve, reference)
			if err != nil {
				logrus.Fatalf("computing mae for %s: %v", nc.label, err)
			}
			log.WithFields(logrus.Fields{"sim": nc.label, "mae": mae}).Info("mean absolute error vs accurate reference")
		}
	}

	if err := renderFigure(figurePath, curves); err != nil {
		logrus.Fatalf("rendering figure: %v", err)
	}
}

func writeCurveFile(path string, curve []kosmo.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return kosmo.WriteCSV(f, curve)
}

func renderFigure(path string, curves []namedCurve) error {
	p := plot.New()
	p.Title.Text = "Miss ratio curve"
	p.X.Label.Text = "cache size (bytes)"
	p.Y.Label.Text = "miss ratio"

	for _, nc := range curves {
		pts := make(plotter.XYs, len(nc.curve))
		for i, pt := range nc.curve {
			pts[i].X = float64(pt.Size)
			pts[i].Y = pt.MissRatio
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(nc.label, line)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
