package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/elC0mpa/cost-notifier/config"
	"github.com/elC0mpa/cost-notifier/metrics"
	"github.com/elC0mpa/cost-notifier/model"
	"github.com/elC0mpa/cost-notifier/service"
	awsconfig "github.com/elC0mpa/cost-notifier/service/aws/config"
	awscostexplorer "github.com/elC0mpa/cost-notifier/service/aws/costexplorer"
	awssecrets "github.com/elC0mpa/cost-notifier/service/aws/secretsmanager"
	awssts "github.com/elC0mpa/cost-notifier/service/aws/sts"
	"github.com/elC0mpa/cost-notifier/service/checkpoint"
	"github.com/elC0mpa/cost-notifier/service/orchestrator"
	"github.com/elC0mpa/cost-notifier/service/period"
	"github.com/elC0mpa/cost-notifier/service/report"
	slacknotifier "github.com/elC0mpa/cost-notifier/service/slack"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "cost-notifier",
		Usage: "posts recurring AWS cost summaries to Slack",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "region",
				Value:   cfg.AWSRegion,
				Usage:   "AWS region",
				EnvVars: []string{"AWS_REGION"},
			},
			&cli.StringFlag{
				Name:    "profile",
				Value:   cfg.AWSProfile,
				Usage:   "AWS shared config profile",
				EnvVars: []string{"AWS_PROFILE"},
			},
			&cli.StringFlag{
				Name:    "slack-secret",
				Value:   cfg.SlackSecretName,
				Usage:   "Secrets Manager secret holding the Slack token and channel",
				EnvVars: []string{"SLACK_SECRET_NAME"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   cfg.LogLevel,
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "generate and deliver one report, then exit",
				Flags: []cli.Flag{typeFlag(cfg)},
				Action: func(c *cli.Context) error {
					log := newLogger(c.String("log-level"))
					orch, err := newOrchestrator(c, checkpoint.NewMemoryStore(), log)
					if err != nil {
						return err
					}
					return orch.Run(c.Context, uuid.NewString(), model.RunInput{Type: c.String("type")})
				},
			},
			{
				Name:  "serve",
				Usage: "deliver reports on a cron schedule with durable checkpoints",
				Flags: []cli.Flag{
					typeFlag(cfg),
					&cli.StringFlag{
						Name:    "schedule",
						Value:   cfg.Schedule,
						Usage:   "cron expression for report delivery",
						EnvVars: []string{"REPORT_SCHEDULE"},
					},
					&cli.StringFlag{
						Name:    "checkpoint-db",
						Value:   cfg.CheckpointPath,
						Usage:   "path of the SQLite checkpoint database",
						EnvVars: []string{"CHECKPOINT_DB"},
					},
					&cli.StringFlag{
						Name:    "metrics-addr",
						Value:   cfg.MetricsAddr,
						Usage:   "listen address for /metrics and /healthz",
						EnvVars: []string{"METRICS_ADDR"},
					},
					&cli.Uint64Flag{
						Name:    "retry-attempts",
						Value:   cfg.RetryAttempts,
						Usage:   "extra invocations of a failed run",
						EnvVars: []string{"RETRY_ATTEMPTS"},
					},
					&cli.DurationFlag{
						Name:    "retry-interval",
						Value:   cfg.RetryInterval,
						Usage:   "delay between invocations of a failed run",
						EnvVars: []string{"RETRY_INTERVAL"},
					},
				},
				Action: serve,
			},
			{
				Name:   "check",
				Usage:  "verify AWS credentials, the Slack secret and the Slack token",
				Action: check,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func typeFlag(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:    "type",
		Value:   cfg.ReportType,
		Usage:   `breakdown dimension: "services" or "accounts"`,
		EnvVars: []string{"REPORT_TYPE"},
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if parsed, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	}
	return log
}

func newOrchestrator(c *cli.Context, store checkpoint.Store, log *logrus.Logger) (orchestrator.OrchestratorService, error) {
	awsCfg, err := awsconfig.NewService().GetAWSCfg(c.Context, c.String("region"), c.String("profile"))
	if err != nil {
		return nil, err
	}

	return orchestrator.NewService(orchestrator.Deps{
		Period:  period.NewService(),
		Cost:    awscostexplorer.NewService(awsCfg),
		Secrets: awssecrets.NewService(awsCfg),
		Report:  report.NewService(),
		NewNotifier: func(token string) service.NotifierService {
			return slacknotifier.NewService(token)
		},
		Store:      store,
		SecretName: c.String("slack-secret"),
		Log:        log,
	}), nil
}

func serve(c *cli.Context) error {
	log := newLogger(c.String("log-level"))

	store, err := checkpoint.NewSQLiteStore(c.String("checkpoint-db"))
	if err != nil {
		return err
	}
	defer store.Close()

	orch, err := newOrchestrator(c, store, log)
	if err != nil {
		return err
	}

	metricsServer := metrics.Serve(c.String("metrics-addr"), log)

	reportType := c.String("type")
	attempts := c.Uint64("retry-attempts")
	interval := c.Duration("retry-interval")

	scheduler := cron.New()
	_, err = scheduler.AddFunc(c.String("schedule"), func() {
		// One run id per tick: retries of a failed invocation resume from
		// the run's checkpoints instead of starting over.
		runID := uuid.NewString()
		start := time.Now()

		invoke := func() error {
			return orch.Run(context.Background(), runID, model.RunInput{Type: reportType})
		}
		policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), attempts)
		if err := backoff.Retry(invoke, policy); err != nil {
			metrics.RunsTotal.WithLabelValues("failed").Inc()
			log.WithError(err).WithField("run_id", runID).Error("report run failed")
			return
		}

		metrics.RunsTotal.WithLabelValues("succeeded").Inc()
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	log.WithFields(logrus.Fields{
		"schedule": c.String("schedule"),
		"type":     reportType,
	}).Info("cost notifier scheduler started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return metricsServer.Shutdown(shutdownCtx)
}

func check(c *cli.Context) error {
	log := newLogger(c.String("log-level"))

	awsCfg, err := awsconfig.NewService().GetAWSCfg(c.Context, c.String("region"), c.String("profile"))
	if err != nil {
		return err
	}

	var failures []error

	account, err := awssts.NewService(awsCfg).GetAccountInfo(c.Context)
	if err != nil {
		log.WithError(err).Error("AWS credential check failed")
		failures = append(failures, err)
	} else {
		log.WithFields(logrus.Fields{
			"account_id": account.AccountID,
			"arn":        account.AccountName,
		}).Info("AWS credentials ok")
	}

	secretName := c.String("slack-secret")
	if secretName == "" {
		err := errors.New("slack secret name is not configured")
		log.WithError(err).Error("environment check failed")
		return errors.Join(append(failures, err)...)
	}

	credential, err := awssecrets.NewService(awsCfg).Resolve(c.Context, secretName)
	if err != nil {
		log.WithError(err).Error("secret check failed")
		return errors.Join(append(failures, err)...)
	}
	log.WithField("channel", credential.Channel).Info("slack secret ok")

	team, err := slacknotifier.NewService(credential.Token).AuthCheck(c.Context)
	if err != nil {
		log.WithError(err).Error("slack token check failed")
		failures = append(failures, err)
	} else {
		log.WithField("team", team).Info("slack token ok")
	}

	return errors.Join(failures...)
}
