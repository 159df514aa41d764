// Command wss reports the working set size of a binary trace.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kosmomrc/kosmo"
	"github.com/kosmomrc/kosmo/trace"
)

var (
	path     string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "wss",
	Short: "Compute the working set size of a trace",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if path == "" {
			logrus.Fatal("--path is required")
		}

		r, closer, err := trace.Open(path)
		if err != nil {
			logrus.Fatalf("opening trace: %v", err)
		}
		defer closer.Close()

		wss, err := kosmo.WSSStream(r)
		if err != nil {
			logrus.Fatalf("computing wss: %v", err)
		}
		if wss == 0 {
			logrus.Fatal("working set size is zero")
		}

		logrus.WithField("wss_bytes", humanize.Bytes(wss)).Info("done")
		// The raw byte count on stdout, for scripting.
		fmt.Fprintln(cmd.OutOrStdout(), wss)
	},
}

func init() {
	rootCmd.Flags().StringVar(&path, "path", "", "path to the binary trace file")
	rootCmd.Flags().StringVar(&logLevel, "log", "info", "log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
