package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/umputun/feedtriage/pkg/config"
	"github.com/umputun/feedtriage/pkg/delivery"
	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/hf"
	"github.com/umputun/feedtriage/pkg/llm"
	"github.com/umputun/feedtriage/pkg/metrics"
	"github.com/umputun/feedtriage/pkg/quote"
	"github.com/umputun/feedtriage/pkg/report"
	"github.com/umputun/feedtriage/pkg/repository"
	"github.com/umputun/feedtriage/pkg/scheduler"
	"github.com/umputun/feedtriage/pkg/service"
	"github.com/umputun/feedtriage/pkg/source"
	"github.com/umputun/feedtriage/pkg/triage"
	"github.com/umputun/feedtriage/server"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Listen  string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	EnvFile string `long:"env-file" env:"ENV_FILE" default:".env" description:"dotenv file, ignored if missing"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// max feedback rows sent to insight generator
const insightsLimit = 200

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting feedtriage version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run loads configuration, wires all components and blocks until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[WARN] failed to load env file %s: %v", opts.EnvFile, err)
		}
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	// mask secrets in logs
	setupLog(opts.Debug, opts.NoColor, secrets(cfg)...)

	metrics.Init()

	// one llm client serves both the llm backend and insights
	var completer llm.Completer
	if cfg.LLM.Enabled() {
		if completer, err = llm.NewCompleter(ctx, cfg.LLM); err != nil {
			return fmt.Errorf("failed to make llm client: %w", err)
		}
	}

	ranker, summarizer := makeModels(cfg, completer)

	classifier, err := triage.NewClassifier(ranker, summarizer, cfg.Models.CacheSize)
	if err != nil {
		return fmt.Errorf("failed to make classifier: %w", err)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	params := service.Params{
		Pipeline:        triage.NewPipeline(classifier, cfg.Report.SortByPriority),
		Source:          feedbackSource(cfg.Feedback),
		Reports:         report.NewBuilder(cfg.Report.OutputDir),
		Classifications: repos.Classification,
		ReportHistory:   repos.Report,
		InsightsLimit:   insightsLimit,
	}

	if cfg.Report.Archive.Enabled {
		archive, archErr := report.NewArchive(report.S3Config{
			Endpoint:  cfg.Report.Archive.Endpoint,
			Region:    cfg.Report.Archive.Region,
			AccessKey: cfg.Report.Archive.AccessKey,
			SecretKey: cfg.Report.Archive.SecretKey,
			Bucket:    cfg.Report.Archive.Bucket,
			Prefix:    cfg.Report.Archive.Prefix,
			UseSSL:    cfg.Report.Archive.UseSSL,
		})
		if archErr != nil {
			return fmt.Errorf("failed to make report archive: %w", archErr)
		}
		params.Archive = archive
		log.Printf("[INFO] report archive enabled, bucket %s", cfg.Report.Archive.Bucket)
	}

	if completer != nil {
		params.Insights = llm.NewInsightGenerator(completer, cfg.LLM.SystemPrompt)
		log.Printf("[INFO] insights enabled, %s model %s", cfg.LLM.Provider, cfg.LLM.Model)
	}

	svc := service.NewTriageService(params)
	slack := delivery.NewSlack(cfg.Delivery.Slack.Timeout)
	mailer := delivery.NewMailer(cfg.Delivery.SMTP)

	if cfg.Schedule.Cron != "" {
		sched, schedErr := makeScheduler(cfg, svc, slack, mailer)
		if schedErr != nil {
			return schedErr
		}
		sched.Start(ctx)
		defer sched.Stop()
	}

	srv := server.New(server.Deps{
		Config: cfg,
		Triage: svc,
		Slack:  slack,
		Mailer: mailer,
		Quotes: quote.NewRotator(cfg.Quotes),
	}, revision, opts.Debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeModels builds label ranker and summarizer for the configured backend,
// llm backend uses the shared completer, validated config guarantees it is set
func makeModels(cfg *config.Config, completer llm.Completer) (triage.LabelRanker, triage.Summarizer) {
	if cfg.Models.Backend == "llm" && completer != nil {
		log.Printf("[INFO] using llm backend, %s model %s", cfg.LLM.Provider, cfg.LLM.Model)
		return llm.NewRanker(completer), llm.NewSummarizer(completer, cfg.Models.Summary)
	}
	client := hf.New(cfg.Models.HF, cfg.Models.Summary)
	log.Printf("[INFO] using hf backend, classifier %s, summarizer %s",
		cfg.Models.HF.ClassifierModel, cfg.Models.HF.SummarizerModel)
	return client, client
}

// feedbackSource makes csv source, followed by review feeds if configured
func feedbackSource(cfg config.FeedbackConfig) service.FeedbackSource {
	csvSource := source.NewCSVSource(cfg.CSVPath, cfg.Column)
	if len(cfg.Feeds) == 0 {
		return csvSource
	}
	log.Printf("[INFO] loading feedback from %s and %d review feeds", cfg.CSVPath, len(cfg.Feeds))
	return source.Multi{csvSource, source.NewFeedSource(cfg.Feeds, cfg.FeedTimeout)}
}

// makeScheduler builds weekly report scheduler from schedule config
func makeScheduler(cfg *config.Config, svc *service.TriageService, slack *delivery.Slack,
	mailer *delivery.Mailer) (*scheduler.Scheduler, error) {
	loc := time.Local
	if tz := cfg.Schedule.Timezone; tz != "" && tz != "Local" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("failed to load schedule timezone %q: %w", tz, err)
		}
		loc = l
	}

	schedCfg := scheduler.Config{
		Spec:     cfg.Schedule.Cron,
		Location: loc,
		Format:   cfg.Schedule.Format,
	}
	if cfg.Schedule.Slack {
		schedCfg.SlackWebhook = cfg.Delivery.Slack.WebhookURL
	}
	if cfg.Schedule.EmailTo != "" {
		schedCfg.Email = domain.EmailRequest{
			From:     cfg.Delivery.SMTP.From,
			Password: cfg.Delivery.SMTP.Password,
			To:       cfg.Schedule.EmailTo,
			Subject:  cfg.Schedule.Subject,
		}
	}

	sched, err := scheduler.New(schedCfg, svc, slack, mailer)
	if err != nil {
		return nil, fmt.Errorf("failed to make scheduler: %w", err)
	}
	return sched, nil
}

// secrets returns configured credentials to be masked in logs
func secrets(cfg *config.Config) []string {
	var res []string
	for _, s := range []string{cfg.Models.HF.Token, cfg.LLM.APIKey, cfg.Delivery.SMTP.Password,
		cfg.Delivery.Slack.WebhookURL, cfg.Report.Archive.SecretKey} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
