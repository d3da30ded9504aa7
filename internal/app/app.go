package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tracker/internal/config"
	"tracker/internal/mail"
	"tracker/internal/observability/metrics"
	"tracker/internal/services"
	"tracker/internal/store"
	"tracker/internal/store/primary"
	"tracker/pkg/classifier"
)

// App holds every initialized component. Commands pull what they need from
// here instead of wiring stores and services themselves.
type App struct {
	Config       *config.Config
	PrimaryStore store.PrimaryStore
	JobClient    store.JobClient
	Mailer       mail.Sender
	Metrics      *metrics.Metrics
	Classifier   classifier.Classifier

	IssueService          *services.IssueService
	ClassificationService *services.ClassificationService
	NotificationService   *services.NotificationService
	DuplicateService      *services.DuplicateService
	StatsService          *services.StatsService
	ExportService         *services.ExportService
	OverdueService        *services.OverdueService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:     cfg,
		Metrics:    metrics.New("tracker"),
		Classifier: classifier.NewRuleClassifier(),
	}

	if err := app.initPrimaryStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.initMailer()
	app.initServices()

	log.Debug("application initialization complete")
	return app, nil
}

func (a *App) initPrimaryStore(ctx context.Context) error {
	ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.Primary.DSN)
	if err != nil {
		return fmt.Errorf("init primary store: %w", err)
	}
	if err := ps.EnsureSchema(ctx); err != nil {
		ps.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}
	a.PrimaryStore = ps
	return nil
}

// initJobClient connects to Redis when async classification is on. Without
// it every background effect runs inline, which is fine for the CLI.
func (a *App) initJobClient() error {
	if !a.Config.Classification.Async || a.Config.Redis.Address == "" {
		log.Debug("async classification disabled, running background work inline")
		return nil
	}
	jc, err := store.NewAsynqJobClient(a.Config.Redis.Address, a.Config.Redis.Password, a.Config.Redis.DB)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	return nil
}

func (a *App) initMailer() {
	if !a.Config.Email.Enabled {
		return
	}
	a.Mailer = mail.NewSMTPSender(mail.SMTPConfig{
		Host:     a.Config.Email.Host,
		Port:     a.Config.Email.Port,
		Username: a.Config.Email.Username,
		Password: a.Config.Email.Password,
		From:     a.Config.Email.From,
	})
}

func (a *App) initServices() {
	ps := a.PrimaryStore
	cfg := a.Config

	a.ClassificationService = services.NewClassificationService(
		a.Classifier, ps, cfg.Classification.ConfidenceThreshold, a.Metrics)
	a.NotificationService = services.NewNotificationService(ps, ps, ps, a.Mailer, a.JobClient)
	a.IssueService = services.NewIssueService(services.IssueServiceDeps{
		Issues:         ps,
		Comments:       ps,
		Labels:         ps,
		Activity:       ps,
		Watchers:       ps,
		Notifier:       a.NotificationService,
		Classification: a.ClassificationService,
		Jobs:           a.JobClient,
		AsyncClassify:  cfg.Classification.Async,
		Metrics:        a.Metrics,
	})
	a.DuplicateService = services.NewDuplicateService(
		ps, a.Classifier, cfg.Duplicates.Threshold, cfg.Duplicates.MaxCandidates)
	a.StatsService = services.NewStatsService(ps, ps)
	a.ExportService = services.NewExportService(ps, ps, ps)
	a.OverdueService = services.NewOverdueService(ps, a.NotificationService)
}

func (a *App) cleanupPartialInit() {
	if a.JobClient != nil {
		a.JobClient.Close()
	}
	if a.PrimaryStore != nil {
		a.PrimaryStore.Close()
	}
}

// Close releases connection pools. Safe to call on a partially built App.
func (a *App) Close() {
	a.cleanupPartialInit()
}
