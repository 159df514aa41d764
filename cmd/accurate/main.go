// Command accurate builds an exact reference miss ratio curve by running
// one independent fixed-capacity cache per grid point over the full trace.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kosmomrc/kosmo"
)

var (
	path       string
	wss        uint64
	policyTag  string
	outputPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "accurate",
	Short: "Build an exact reference miss ratio curve",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if path == "" {
			logrus.Fatal("--path is required")
		}
		if wss == 0 {
			logrus.Fatal("--wss is required and must be nonzero")
		}
		if outputPath == "" {
			logrus.Fatal("--output-path is required")
		}

		policy, err := kosmo.ParsePolicy(policyTag)
		if err != nil {
			logrus.Fatalf("parsing policy: %v", err)
		}

		grid := kosmo.NewGrid(wss)
		sim := kosmo.NewMiniSim(policy, grid)

		log := logrus.StandardLogger()
		processed, err := kosmo.RunThroughput(path, []kosmo.Simulator{sim}, nil, log)
		if err != nil {
			logrus.Fatalf("running simulation: %v", err)
		}
		log.WithField("accesses", processed).Info("simulation complete")

		f, err := os.Create(outputPath)
		if err != nil {
			logrus.Fatalf("creating output file: %v", err)
		}
		defer f.Close()
		if err := kosmo.WriteCSV(f, kosmo.Curve(grid)); err != nil {
			logrus.Fatalf("writing curve: %v", err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&path, "path", "", "path to the binary trace file")
	rootCmd.Flags().Uint64Var(&wss, "wss", 0, "working set size in bytes, from the wss tool")
	rootCmd.Flags().StringVar(&policyTag, "policy", "lru", "eviction policy (lru, fifo, lfu, lrfu, 2q)")
	rootCmd.Flags().StringVar(&outputPath, "output-path", "", "output CSV path (required)")
	rootCmd.Flags().StringVar(&logLevel, "log", "info", "log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
