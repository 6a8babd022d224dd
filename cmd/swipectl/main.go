// Package main provides the swipectl developer CLI: importing recorded
// touch traces, replaying them through the gesture detector, and
// validating keyboard layout files.
package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"swipekit/internal/config"
	"swipekit/internal/logging"
	"swipekit/internal/tracestore"
	"swipekit/pkg/layout"
	"swipekit/pkg/swipe"
)

var (
	flagConfig  string
	flagDB      string
	flagLayout  string
	flagName    string
	flagVerbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "swipectl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "swipectl",
		Short:         "Gesture trace tooling for the swipekit engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a swipekit TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "trace database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newLayoutCmd())
	return rootCmd
}

// loadConfig resolves the effective configuration and logger. Without an
// explicit --config, the per-user config file is used when it exists.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()
	path := flagConfig
	if path == "" {
		if p := config.DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}

	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   format,
		Output:   cfg.Logging.Output,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func tracePath(cfg *config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return cfg.Trace.Path
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <trace.csv>",
		Short: "Import a CSV touch trace (phase,x,y,t_ms per line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			samples, err := readTraceCSV(args[0])
			if err != nil {
				return err
			}

			store, err := tracestore.Open(tracePath(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			name := flagName
			if name == "" {
				name = args[0]
			}
			id, err := store.CreateTrace(name, flagLayout, cfg.Detector.Density)
			if err != nil {
				return err
			}
			if err := store.AppendSamples(id, samples); err != nil {
				return err
			}
			fmt.Printf("imported trace %d (%q, %d samples)\n", id, name, len(samples))
			return nil
		},
	}
	cmd.Flags().StringVar(&flagName, "name", "", "trace name (defaults to the file name)")
	cmd.Flags().StringVar(&flagLayout, "layout", "", "layout file the trace was recorded against")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored traces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := tracestore.Open(tracePath(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			traces, err := store.ListTraces()
			if err != nil {
				return err
			}
			for _, tr := range traces {
				fmt.Printf("%4d  %-24s  %5d samples  %s\n",
					tr.ID, tr.Name, tr.Samples, tr.Created.Format(time.DateTime))
			}
			return nil
		},
	}
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace-id>",
		Short: "Replay a stored trace through the detector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid trace id %q", args[0])
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := tracestore.Open(tracePath(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			samples, err := store.LoadSamples(traceID)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("trace %d has no samples", traceID)
			}

			geo, bounds, err := resolveLayout()
			if err != nil {
				return err
			}

			return replay(samples, geo, bounds, cfg.Thresholds(), log)
		},
	}
	cmd.Flags().StringVar(&flagLayout, "layout", "", "layout file (defaults to a built-in 360x160 QWERTY grid)")
	return cmd
}

// resolveLayout loads the layout file, or falls back to the built-in
// QWERTY grid used for tuning.
func resolveLayout() (layout.Provider, swipe.Bounds, error) {
	if flagLayout == "" {
		bounds := swipe.Bounds{Left: 0, Top: 0, Width: 360, Height: 160}
		return layout.QWERTY(bounds.Left, bounds.Top, bounds.Width, bounds.Height), bounds, nil
	}

	geo, err := layout.Load(flagLayout)
	if err != nil {
		return nil, swipe.Bounds{}, err
	}
	return geo, boundingBox(geo), nil
}

// boundingBox derives keyboard bounds from the layout's key extents.
func boundingBox(geo layout.Provider) swipe.Bounds {
	keys := geo.Keys()
	if len(keys) == 0 {
		return swipe.Bounds{}
	}
	left := keys[0].CenterX - keys[0].Width/2
	top := keys[0].CenterY - keys[0].Height/2
	right := keys[0].CenterX + keys[0].Width/2
	bottom := keys[0].CenterY + keys[0].Height/2
	for _, k := range keys[1:] {
		left = min(left, k.CenterX-k.Width/2)
		top = min(top, k.CenterY-k.Height/2)
		right = max(right, k.CenterX+k.Width/2)
		bottom = max(bottom, k.CenterY+k.Height/2)
	}
	return swipe.Bounds{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// replayListener collects detector output for reporting.
type replayListener struct {
	gestures []*swipe.Gesture
	taps     int
	cancels  int
}

func (l *replayListener) OnTap(x, y float64)                             { l.taps++ }
func (l *replayListener) OnSwipeStart(x, y float64)                      {}
func (l *replayListener) OnSwipeMove(x, y float64, path []swipe.TouchSample) {}
func (l *replayListener) OnSwipeEnd(g *swipe.Gesture)                    { l.gestures = append(l.gestures, g) }
func (l *replayListener) OnSwipeCancel()                                 { l.cancels++ }

// replay feeds a trace through a fresh detector and reports every
// classified gesture plus the extracted word per strategy.
func replay(samples []tracestore.Sample, geo layout.Provider, bounds swipe.Bounds, thresholds swipe.ThresholdConfig, log *slog.Logger) error {
	listener := &replayListener{}
	det := swipe.NewDetector(geo, listener,
		swipe.WithThresholds(thresholds),
		swipe.WithBounds(bounds),
		swipe.WithLogger(log),
	)

	base := time.Now()
	for _, sm := range samples {
		det.HandleTouch(sm.Phase, sm.X, sm.Y, base.Add(time.Duration(sm.TimeMs)*time.Millisecond))
	}

	fmt.Printf("taps: %d, cancels: %d, gestures: %d\n",
		listener.taps, listener.cancels, len(listener.gestures))
	for i, g := range listener.gestures {
		fmt.Printf("gesture %d: %s %s  distance=%.1fpx duration=%dms keys=%d\n",
			i, g.Type, g.Direction, g.Distance, g.Duration.Milliseconds(), len(g.Keys))
		if g.Type == swipe.GestureSwipeType {
			result := det.BuildWord(g)
			fmt.Printf("  word: %q (strategy: %s)\n", result.Word(), result.Strategy)
		}
	}
	return nil
}

func newLayoutCmd() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Keyboard layout utilities",
	}
	layoutCmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a layout file (json, toml or yaml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			geo, err := layout.Load(args[0])
			if err != nil {
				return err
			}
			b := boundingBox(geo)
			fmt.Printf("%s: %d keys, bounds %gx%g\n",
				args[0], len(geo.Keys()), b.Width, b.Height)
			return nil
		},
	})
	return layoutCmd
}

// readTraceCSV parses "phase,x,y,t_ms" lines. Phase accepts both numeric
// values and the names down/move/up/cancel.
func readTraceCSV(path string) ([]tracestore.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 4
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	samples := make([]tracestore.Sample, 0, len(records))
	for i, rec := range records {
		phase, err := parsePhase(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		x, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad x %q", i+1, rec[1])
		}
		y, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad y %q", i+1, rec[2])
		}
		tms, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad t_ms %q", i+1, rec[3])
		}
		samples = append(samples, tracestore.Sample{Phase: phase, X: x, Y: y, TimeMs: tms})
	}
	return samples, nil
}

func parsePhase(s string) (swipe.TouchPhase, error) {
	switch s {
	case "down", "0":
		return swipe.PhaseDown, nil
	case "move", "1":
		return swipe.PhaseMove, nil
	case "up", "2":
		return swipe.PhaseUp, nil
	case "cancel", "3":
		return swipe.PhaseCancel, nil
	default:
		return 0, fmt.Errorf("unknown phase %q", s)
	}
}
