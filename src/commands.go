package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/contre95/lyr/src/features/config"
	"github.com/contre95/lyr/src/features/hosting"
	"github.com/contre95/lyr/src/features/logging"
	"github.com/contre95/lyr/src/features/lyrics"
	"github.com/contre95/lyr/src/features/metrics"
	"github.com/contre95/lyr/src/features/watching"
	"github.com/contre95/lyr/src/infra/fetchers"
	"github.com/contre95/lyr/src/infra/tag"
	"github.com/contre95/lyr/src/infra/watcher"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// rootOpts holds the flags of the lyrics lookup command.
type rootOpts struct {
	title      string
	artist     string
	input      string
	noEmbed    bool
	configPath string
	verbose    bool
}

// app is the wired application shared by every command.
type app struct {
	config    *config.Manager
	collector *metrics.Collector
	lyrics    *lyrics.Service
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	var application *app

	root := &cobra.Command{
		Use:   "lyr [OUTPUT]",
		Short: "Fetch song lyrics from the web",
		Long: `lyr looks song lyrics up on a configurable list of websites, trying each in turn.
Lyrics are printed, written to OUTPUT, or embedded into the tags of the --input audio file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.configPath, opts.verbose)
			if err != nil {
				return err
			}
			application = a
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			runOpts := lyrics.RunOptions{
				Title:   opts.title,
				Artist:  opts.artist,
				Input:   opts.input,
				NoEmbed: opts.noEmbed,
				Stdout:  cmd.OutOrStdout(),
			}
			if len(args) == 1 {
				runOpts.Output = args[0]
			}
			return application.lyrics.Run(cmd.Context(), runOpts)
		},
	}

	root.Flags().StringVarP(&opts.title, "title", "t", "", "song title (read from --input tags when omitted)")
	root.Flags().StringVarP(&opts.artist, "artist", "a", "", "song artist (read from --input tags when omitted)")
	root.Flags().StringVarP(&opts.input, "input", "i", "", "audio file to read tags from and embed lyrics into")
	root.Flags().BoolVarP(&opts.noEmbed, "no-embed", "n", false, "do not embed lyrics into the input file")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default $XDG_CONFIG_HOME/lyr/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd(func() *app { return application }))
	root.AddCommand(newWatchCmd(func() *app { return application }))
	root.AddCommand(newScanCmd(func() *app { return application }))

	return root
}

// validate enforces the flag combinations of the lookup command.
func (o *rootOpts) validate() error {
	if o.input == "" && (o.title == "" || o.artist == "") {
		return errors.New("--input is required unless both --title and --artist are given")
	}
	if o.noEmbed && o.input == "" {
		return errors.New("--no-embed requires --input")
	}
	return nil
}

func newServeCmd(application func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve lyrics over HTTP and, when enabled, Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := application()
			server := hosting.NewServer(a.config, a.lyrics, a.collector)

			g, gCtx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return server.Run(gCtx)
			})

			if a.config.Get().Telegram.Enabled {
				bot, err := hosting.NewTelegramBot(a.config, a.lyrics)
				if err != nil {
					slog.Error("Failed to initialize Telegram bot", "error", err)
				} else {
					g.Go(func() error {
						return bot.Run(gCtx)
					})
				}
			}

			slog.Info("Server started. Press Ctrl+C to shut down.", "port", a.config.Get().Server.Port)
			if err := g.Wait(); err != nil {
				return err
			}
			return cmd.Context().Err()
		},
	}
}

func newWatchCmd(application func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Embed lyrics into audio files as they appear in DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := application()
			dir := args[0]
			if err := requireDir(dir); err != nil {
				return err
			}

			events := make(chan watcher.FileEvent, 100)
			w, err := watcher.NewWatcher(events, a.config.Get().Watch.Debounce)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := w.Start(cmd.Context(), dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			defer w.Stop()

			return watching.NewService(a.lyrics).Process(cmd.Context(), events)
		},
	}
}

func newScanCmd(application func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan DIR",
		Short: "Embed lyrics into every audio file under DIR that has none",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDir(args[0]); err != nil {
				return err
			}
			stats, err := watching.NewService(application().lyrics).ScanDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d, embedded %d, skipped %d, not found %d, failed %d\n",
				stats.Processed, stats.Embedded, stats.Skipped, stats.NotFound, stats.Failed)
			return nil
		},
	}
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// newApp loads the configuration and wires the services.
func newApp(configPath string, verbose bool) (*app, error) {
	if configPath == "" {
		path, err := config.DefaultPath()
		if err == nil {
			configPath = path
		}
	}

	registry, err := fetchers.NewRegistry(fetchers.DefaultSources()...)
	if err != nil {
		return nil, err
	}

	cfgManager, err := config.Load(configPath, registry.IDs())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logging.SetupLogger(cfgManager, verbose))

	cfg := cfgManager.Get()
	client := fetchers.NewClient(registry,
		fetchers.WithTimeout(cfg.Lyrics.Timeout),
		fetchers.WithUserAgent(cfg.Lyrics.UserAgent),
	)
	collector := metrics.NewCollector()
	service := lyrics.NewService(client, tag.NewTagReader(), tag.NewTagWriter(), cfgManager, collector)

	return &app{config: cfgManager, collector: collector, lyrics: service}, nil
}
