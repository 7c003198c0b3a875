package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/localstash/localstash/internal/config"
	"github.com/localstash/localstash/internal/messages"
	"github.com/localstash/localstash/internal/track"
)

type trackOptions struct {
	file      string
	interval  time.Duration
	url       string
	queue     string
	verbosity int
}

func newTrackCmd() *cobra.Command {
	opts := trackOptions{}

	cmd := &cobra.Command{
		Use:   messages.TrackUse,
		Short: messages.TrackShort,
		Long:  messages.TrackLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.file, "file", "", messages.TrackFlagFile)
	flags.DurationVar(&opts.interval, "save-interval", 0, messages.TrackFlagInterval)
	flags.StringVar(&opts.url, "url", "", messages.TrackFlagURL)
	flags.StringVar(&opts.queue, "queue", "", messages.TrackFlagQueue)
	flags.CountVarP(&opts.verbosity, "verbose", "v", messages.FlagVerbose)

	return cmd
}

// applyConfig fills flags left unset from the config file and the
// default paths.
func (o *trackOptions) applyConfig(cfg *config.Config, paths config.Paths) error {
	if o.url == "" {
		o.url = cfg.Tracking.URL
	}
	if o.queue == "" {
		o.queue = cfg.Tracking.Queue
	}
	if o.file == "" {
		o.file = cfg.Tracking.File
	}
	if o.file == "" {
		o.file = paths.HistoryPath
	}
	file, err := config.ExpandPath(o.file)
	if err != nil {
		return err
	}
	o.file = file
	if o.interval <= 0 {
		o.interval = cfg.SaveInterval()
	}
	return nil
}

func runTrack(cmd *cobra.Command, opts trackOptions) error {
	cfg, paths, err := loadConfig()
	if err != nil {
		return err
	}
	if err := opts.applyConfig(cfg, paths); err != nil {
		return err
	}

	level := log.InfoLevel
	if opts.verbosity > 0 {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "track",
		Level:  level,
	})

	svc, err := track.New(track.Options{
		URL:          opts.url,
		Queue:        opts.queue,
		File:         opts.file,
		SaveInterval: opts.interval,
		Verbose:      opts.verbosity > 0,
		Out:          cmd.OutOrStdout(),
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
	defer stop()
	if err := svc.Run(ctx); err != nil {
		return reportError(cmd.ErrOrStderr(), err, opts.verbosity)
	}
	return nil
}
