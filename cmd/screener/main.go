package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GapScreener/internal/collector"
	"GapScreener/internal/config"
	"GapScreener/internal/notifier"
	"GapScreener/internal/recorder"
	"GapScreener/internal/report"
	"GapScreener/internal/scheduler"
	"GapScreener/internal/screener"
	"GapScreener/internal/trace"

	"github.com/joho/godotenv"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitMailConfig = 2
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	dryRun := flag.Bool("dry-run", false, "do not send email; write the CSV locally and print the report")
	pairs := flag.String("pairs", "", "comma-separated list of tickers overriding the configured pairs")
	daemon := flag.Bool("daemon", false, "stay running and screen on the configured cron schedule")
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *pairs != "" {
		cfg.Pairs = config.ParsePairs(*pairs)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if err := trace.Init(); err != nil {
		log.Printf("[WARN] tracing disabled: %v", err)
	} else if trace.Enabled() {
		log.Println("[INFO] tracing enabled")
	}
	defer shutdownTracing()

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.DataSource.PeriodDays, cfg.DataSource.Interval, cfg.DataSource.Timeout)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	a := newApp(cfg, screener.New(col, cfg.Location()), rec, os.Stdout)
	if *dryRun {
		log.Println("[INFO] >> DRY_RUN mode")
	}

	if !*daemon {
		code := a.runOnce(context.Background(), *dryRun)
		if code != exitOK {
			// os.Exit skips deferred calls.
			rec.Close()
			shutdownTracing()
			os.Exit(code)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(cfg.Location(), func() { a.runOnce(ctx, *dryRun) })
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	sched.Start()
	defer sched.Stop()
	log.Printf("[INFO] next screening at %s", sched.Next().Format(time.RFC3339))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
}

func shutdownTracing() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		log.Printf("[WARN] flush traces: %v", err)
	}
}

// app ties one screening run to its delivery.
type app struct {
	cfg       *config.Config
	screener  *screener.Screener
	recorder  recorder.Recorder
	stdout    io.Writer
	loadMail  func() (*config.MailSettings, error)
	newMailer func(ms *config.MailSettings) notifier.Mailer
}

func newApp(cfg *config.Config, s *screener.Screener, rec recorder.Recorder, stdout io.Writer) *app {
	return &app{
		cfg:       cfg,
		screener:  s,
		recorder:  rec,
		stdout:    stdout,
		loadMail:  config.LoadMailSettings,
		newMailer: smtpMailer,
	}
}

func smtpMailer(ms *config.MailSettings) notifier.Mailer {
	return notifier.NewSMTPMailer(ms.Host, ms.Port, ms.Username, ms.Password)
}

// runOnce screens the configured pairs and delivers the report. It returns
// the process exit code.
func (a *app) runOnce(ctx context.Context, dryRun bool) int {
	start := time.Now()
	loc := a.cfg.Location()

	rep := a.screener.Run(ctx, a.cfg.Pairs)
	body := notifier.FormatSummary(rep, loc)
	csv, err := report.EncodeCSV(rep)
	if err != nil {
		log.Printf("[ERROR] encode csv: %v", err)
		return exitFailure
	}

	run := &recorder.RunRecord{Report: &rep, Mode: recorder.ModeLive}

	if dryRun {
		path, err := notifier.WriteDryRun(a.cfg.Output.Dir, rep.ExecutedAt, csv)
		if err != nil {
			log.Printf("[ERROR] dry-run: %v", err)
			return exitFailure
		}
		fmt.Fprintln(a.stdout, body)
		run.Mode, run.Artifact, run.Delivered = recorder.ModeDryRun, path, true
		a.record(run, start)
		return exitOK
	}

	ms, err := a.loadMail()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		fmt.Fprintln(a.stdout, body)
		return exitMailConfig
	}

	msg := &notifier.Message{
		From:           ms.From,
		To:             ms.To,
		Subject:        notifier.Subject(rep, loc),
		Body:           body,
		AttachmentName: report.AttachmentName(rep.ExecutedAt),
		Attachment:     csv,
	}
	ctx, span := trace.StartSpan(ctx, "notifier.Send")
	err = a.newMailer(ms).Send(ctx, msg)
	trace.Fail(span, err)
	span.End()
	if err != nil {
		log.Printf("[FATAL] send email: %v", err)
		return exitFailure
	}
	log.Printf("[INFO] email sent to %v", ms.To)

	run.Artifact, run.Delivered = msg.AttachmentName, true
	a.record(run, start)
	return exitOK
}

func (a *app) record(run *recorder.RunRecord, start time.Time) {
	run.Duration = time.Since(start)
	if _, err := a.recorder.RecordRun(run); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}
