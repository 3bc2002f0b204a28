package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/courier/batch"
	"github.com/pithecene-io/courier/cli/config"
	"github.com/pithecene-io/courier/cli/tui"
	"github.com/pithecene-io/courier/deliver"
	"github.com/pithecene-io/courier/iox"
	"github.com/pithecene-io/courier/journal"
	"github.com/pithecene-io/courier/log"
	"github.com/pithecene-io/courier/metrics"
	"github.com/pithecene-io/courier/progress"
	"github.com/pithecene-io/courier/transfer"
	"github.com/pithecene-io/courier/types"
)

// Exit codes for the send command.
const (
	exitAllDelivered = 0
	exitSomeFailed   = 1
	exitBatchAborted = 2
	exitInvalidInput = 3
)

// SendCommand returns the send command, the only execution entrypoint.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Walk a directory tree and deliver every file to the remote endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to courier.yaml (flags override config values)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Remote host name or address",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Remote TCP port",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Directory tree to send",
			},
			&cli.IntFlag{
				Name:  "chunk-size",
				Usage: "Payload chunk size in bytes",
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Connection attempts per file",
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "Wait between connection attempts",
			},
			&cli.DurationFlag{
				Name:  "dial-timeout",
				Usage: "Connection establishment timeout (0 = none)",
			},
			&cli.DurationFlag{
				Name:  "write-timeout",
				Usage: "Per-write deadline on the connection (0 = none)",
			},
			&cli.StringFlag{
				Name:  "journal",
				Usage: "Append delivery records to this journal file",
			},
			&cli.StringFlag{
				Name:  "progress",
				Usage: "Progress display: console, tui, none",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored console output",
			},
		},
		Action: sendAction,
	}
}

// buildSendConfig merges the optional config file with flag overrides.
func buildSendConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("root") {
		cfg.Root = c.String("root")
	}
	if c.IsSet("chunk-size") {
		cfg.Transfer.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("write-timeout") {
		cfg.Transfer.WriteTimeout.Duration = c.Duration("write-timeout")
	}
	if c.IsSet("max-attempts") {
		cfg.Retry.MaxAttempts = c.Int("max-attempts")
	}
	if c.IsSet("retry-delay") {
		cfg.Retry.Delay.Duration = c.Duration("retry-delay")
	}
	if c.IsSet("dial-timeout") {
		cfg.Retry.DialTimeout.Duration = c.Duration("dial-timeout")
	}
	if c.IsSet("journal") {
		cfg.Journal = c.String("journal")
	}
	if c.IsSet("progress") {
		cfg.Progress = c.String("progress")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sendAction(c *cli.Context) error {
	cfg, err := buildSendConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid input: %v", err), exitInvalidInput)
	}

	batchID := time.Now().UTC().Format("20060102T150405Z")
	remote := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	logger := log.NewLogger(log.BatchMeta{BatchID: batchID, Root: cfg.Root, Remote: remote})
	collector := metrics.NewCollector(batchID, remote)

	var view *tui.TransferView
	var rep progress.Reporter
	switch cfg.Progress {
	case config.ProgressTUI:
		view = tui.NewTransferView()
		rep = view
	case config.ProgressConsole:
		rep = progress.NewConsole(os.Stdout, c.Bool("no-color"))
	}

	session := &transfer.Session{
		ChunkSize: cfg.Transfer.ChunkSize,
		Reporter:  rep,
		Metrics:   collector,
	}
	deliverer := &deliver.Deliverer{
		Host:         cfg.Server.Host,
		Port:         strconv.Itoa(cfg.Server.Port),
		MaxAttempts:  cfg.Retry.MaxAttempts,
		RetryDelay:   cfg.Retry.Delay.Duration,
		DialTimeout:  cfg.Retry.DialTimeout.Duration,
		WriteTimeout: cfg.Transfer.WriteTimeout.Duration,
		Session:      session,
		Logger:       logger,
		Metrics:      collector,
	}

	driver := &batch.Driver{
		Deliverer: deliverer,
		Reporter:  rep,
		Logger:    logger,
		Metrics:   collector,
	}
	if cfg.Journal != "" {
		jw, err := journal.OpenWriter(cfg.Journal)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid input: %v", err), exitInvalidInput)
		}
		defer iox.DiscardClose(jw)
		driver.Journal = jw
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	var sum types.BatchSummary
	var runErr error

	if view != nil {
		// The view owns the terminal; the batch runs beside it and quits
		// the program if it aborts before BatchDone is reported.
		done := make(chan struct{})
		go func() {
			defer close(done)
			sum, runErr = driver.Run(ctx, cfg.Root)
			if runErr != nil {
				view.Quit()
			}
		}()
		if err := view.Wait(); err != nil {
			logger.Warn("progress view failed", map[string]any{"error": err.Error()})
		}
		// A user quit (q/ctrl+c in the view) aborts the batch at the next
		// file boundary; a batch-done quit finds the context already idle.
		cancel()
		<-done
	} else {
		sum, runErr = driver.Run(ctx, cfg.Root)
	}

	if runErr != nil {
		return cli.Exit(fmt.Sprintf("batch aborted: %v", runErr), exitBatchAborted)
	}
	if sum.Failed > 0 {
		return cli.Exit("", exitSomeFailed)
	}
	return cli.Exit("", exitAllDelivered)
}
