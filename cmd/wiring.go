package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/m04kA/CareClarity-AppointmentService/internal/config"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/dynamo"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/postgres"
	"github.com/m04kA/CareClarity-AppointmentService/internal/integrations/email"
	"github.com/m04kA/CareClarity-AppointmentService/internal/service/notifications"
	"github.com/m04kA/CareClarity-AppointmentService/migrations"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/logger"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/txmanager"
)

type durableLedger struct {
	name   string
	ledger ledger.Ledger
}

// buildDurableLedger подключает выбранный durable леджер
// При ошибке подключения возвращается ledger.Disabled, и все запросы обслуживает transient леджер
func buildDurableLedger(ctx context.Context, cfg *config.Config, log *logger.Logger) (durableLedger, func()) {
	noop := func() {}
	disabled := durableLedger{name: ledger.NameDisabled, ledger: ledger.Disabled{}}

	switch cfg.Ledger.Durable {
	case config.DurablePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			log.Error("Postgres ledger unavailable, serving from transient ledger only: %v", err)
			return disabled, noop
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			prometheus.DefaultRegisterer.MustRegister(collectors.NewDBStatsCollector(db, cfg.Database.DBName))
		}

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(cfg.Database.DSN()); err != nil {
				log.Fatal("Failed to apply migrations: %v", err)
			}
			log.Info("Database migrations applied")
		}

		txMgr := txmanager.NewTransactionManager(db)
		return durableLedger{name: ledger.NamePostgres, ledger: postgres.NewLedger(db, txMgr)}, func() { _ = db.Close() }

	case config.DurableDynamoDB:
		awsCfg, err := loadAWSConfig(ctx, cfg.DynamoDB.Region)
		if err != nil {
			log.Error("DynamoDB ledger unavailable, serving from transient ledger only: %v", err)
			return disabled, noop
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDB.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
			}
		})
		log.Info("DynamoDB ledger configured (table=%s, region=%s)", cfg.DynamoDB.Table, awsCfg.Region)
		return durableLedger{name: ledger.NameDynamoDB, ledger: dynamo.NewLedger(client, cfg.DynamoDB.Table)}, noop

	default:
		log.Warn("Durable ledger disabled, bookings are kept in memory only")
		return disabled, noop
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// buildEmailSender выбирает отправителя писем по email.provider
func buildEmailSender(ctx context.Context, cfg *config.Config, log *logger.Logger) (notifications.EmailSender, error) {
	switch cfg.Email.Provider {
	case config.EmailProviderSendGrid:
		return email.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, log), nil

	case config.EmailProviderSES:
		awsCfg, err := loadAWSConfig(ctx, cfg.Email.SESRegion)
		if err != nil {
			return nil, err
		}
		return email.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.Email.FromEmail, cfg.Email.FromName, log), nil

	default:
		return email.NewLogSender(log), nil
	}
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}
