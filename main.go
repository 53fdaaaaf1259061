// Command constellations shows the star field of creative websites.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"constellations/app"
	"constellations/hal"
	"constellations/internal/buildinfo"
	"constellations/internal/config"
	"constellations/internal/logging"
	"constellations/internal/telemetry"
	"constellations/stars/catalog"
	"constellations/stars/interact"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const appName = "constellations"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath string
	sitesPath  string
	headless   hal.HeadlessConfig
}

func rootCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Interactive star field of creative websites",
		Long: `Constellations renders a slowly rotating field of stars. Every star is a
website: hover for its name, click to read about it and open it in a
browser window.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(opts.configPath); err != nil {
				return err
			}
			if err := config.BindFlag("logLevel", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}
			return run(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file or directory holding constellations.yaml")
	cmd.Flags().StringVar(&opts.sitesPath, "sites", "", "YAML site catalog replacing the built-in one")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.headless.Enabled, "headless", false, "Run without a window")
	cmd.Flags().IntVar(&opts.headless.Hz, "hz", 60, "Tick rate in headless mode")
	cmd.Flags().Uint64Var(&opts.headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run until interrupted)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String(appName))
		},
	})

	return cmd
}

func run(ctx context.Context, opts runOptions, logOut io.Writer) error {
	s, err := config.Current()
	if err != nil {
		return err
	}
	log := logging.New(s.LogLevel, logOut)
	log.Info().Str("version", buildinfo.Short()).Msg("starting")

	cfg := app.Config{Settings: s, Log: log}
	if opts.sitesPath != "" {
		sites, err := loadSites(opts.sitesPath)
		if err != nil {
			return err
		}
		cfg.Sites = sites
	}
	cfg.Metrics = metrics(log)

	newApp := func(h hal.HAL) (func() error, error) {
		return app.NewWithConfig(h, cfg)
	}

	if !opts.headless.Enabled {
		return hal.RunWindow(hal.WindowConfig{
			Title:  "Creative Constellations",
			Width:  s.Window.Width,
			Height: s.Window.Height,
			TPS:    s.Window.TPS,
		}, log, newApp)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hc := opts.headless
	hc.Width, hc.Height = s.Window.Width, s.Window.Height
	hc.ScreenWidth, hc.ScreenHeight = s.Headless.ScreenWidth, s.Headless.ScreenHeight
	err = hal.RunHeadless(ctx, hc, log, newApp)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("interrupted")
		return nil
	}
	return err
}

func loadSites(path string) ([]catalog.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site catalog: %w", err)
	}
	defer f.Close()
	sites, err := catalog.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("site catalog %s: %w", path, err)
	}
	if sites == nil {
		sites = []catalog.Site{}
	}
	return sites, nil
}

// metrics returns nil when the meter cannot be set up; the controller then
// counts nothing.
func metrics(log zerolog.Logger) interact.Metrics {
	rec, err := telemetry.New()
	if err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
		return nil
	}
	return rec
}
