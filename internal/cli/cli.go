package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"ymcacal/internal/browser"
	"ymcacal/internal/config"
	"ymcacal/internal/ics"
	appLog "ymcacal/internal/log"
	"ymcacal/internal/schedule"
)

var (
	flagConfig   string
	flagOut      string
	flagHeadless bool
	flagOnce     bool
	flagVerbose  bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ymcacal",
		Short: "Scrape the University Hills YMCA class schedule into an ICS file",
		Long: `Drives a headless browser through the Fisikal schedule widget on the
University Hills YMCA page, walks every selectable day, and writes the
extracted classes as a single ICS calendar file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file (created with defaults if missing)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output ICS path (overrides config)")
	cmd.Flags().BoolVar(&flagHeadless, "headless", true, "Run the browser without a window")
	cmd.Flags().BoolVar(&flagOnce, "once", false, "Scrape once and exit, ignoring any refresh schedule")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagOut != "" {
		conf.Output = flagOut
	}
	if cmd.Flags().Changed("headless") {
		conf.Headless = &flagHeadless
	}

	appLog.Info("effective config",
		"url", conf.URL,
		"timezone", conf.Timezone,
		"output", conf.Output,
		"headless", conf.HeadlessOn(),
		"refresh", conf.Refresh,
	)

	// Root context canceled on SIGINT/SIGTERM; the browser session is
	// bound to it, so a signal tears down an in-flight scrape too.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if conf.Refresh == "" || flagOnce {
		return scrapeOnce(ctx, conf, cmd)
	}

	// Scheduled mode: scrape immediately, then on the cron schedule
	// until a signal arrives. Each tick repeats the whole pipeline.
	sched := cron.New()
	if _, err := sched.AddFunc(conf.Refresh, func() {
		if err := scrapeOnce(ctx, conf, cmd); err != nil {
			appLog.Error("scheduled scrape failed", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", conf.Refresh, err)
	}

	if err := scrapeOnce(ctx, conf, cmd); err != nil {
		return err
	}

	sched.Start()
	<-ctx.Done()
	<-sched.Stop().Done()
	return nil
}

// scrapeOnce runs one full browse-extract-export cycle. The output file
// is written only after every day has been processed.
func scrapeOnce(ctx context.Context, conf *config.Config, cmd *cobra.Command) error {
	sess, err := browser.NewChrome(ctx, conf.HeadlessOn())
	if err != nil {
		return err
	}
	defer sess.Close()

	scraper, err := schedule.NewScraper(sess, conf)
	if err != nil {
		return err
	}

	events, err := scraper.Run()
	if err != nil {
		return err
	}

	n, err := ics.WriteFile(conf.Output, events, conf.FacilityAddress)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d class events to %s\n", n, conf.Output)
	return nil
}
