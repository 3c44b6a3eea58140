// cmd/container.go
//
// Composition root. Owns infrastructure (DB, Redis, email, jobs) and composes
// the module containers.
package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/storefront/pkg/config"
	"github.com/Abraxas-365/storefront/pkg/iam/iamcontainer"
	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/storefront/pkg/jobx"
	"github.com/Abraxas-365/storefront/pkg/jobx/jobxredis"
	"github.com/Abraxas-365/storefront/pkg/logx"
	"github.com/Abraxas-365/storefront/pkg/migrations"
	"github.com/Abraxas-365/storefront/pkg/notifx"
	"github.com/Abraxas-365/storefront/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/storefront/pkg/notifx/notifxses"
	"github.com/Abraxas-365/storefront/pkg/notifx/notifxsmtp"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	DB    *sqlx.DB
	Redis *redis.Client
	Email *notifx.Client
	Jobs  *jobx.Client

	IAM *iamcontainer.Container
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initNotifications()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure: DB, Redis, job queue
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("  ✅ Database connected")

	if c.Config.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := migrations.Up(ctx, db.DB); err != nil {
			logx.Fatalf("Failed to run migrations: %v", err)
		}
		logx.Info("  ✅ Migrations applied")
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	jc := c.Config.Jobx
	c.Jobs = jobx.NewClient(
		jobxredis.NewRedisQueue(c.Redis),
		jobx.WithQueues(jc.Queues...),
		jobx.WithConcurrency(jc.Concurrency),
		jobx.WithPollInterval(jc.PollInterval),
		jobx.WithShutdownTimeout(jc.ShutdownTimeout),
		jobx.WithDequeueTimeout(jc.DequeueTimeout),
		jobx.WithDefaultRetryDelay(jc.DefaultRetryDelay),
		jobx.WithMaxRetries(jc.MaxRetries),
	)

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initNotifications() {
	nc := c.Config.Notifx

	var provider notifx.EmailSender
	switch nc.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(nc.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		provider = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), nc.FromAddress)
		logx.Infof("  ✅ SES email provider configured (region: %s)", nc.AWSRegion)

	case "smtp":
		provider = notifxsmtp.NewSMTPProvider(nc.SMTP.Host, nc.SMTP.Port, nc.SMTP.User, nc.SMTP.Password, nc.FromAddress, nc.FromName)
		logx.Infof("  ✅ SMTP email provider configured (host: %s)", nc.SMTP.Host)

	default:
		provider = notifxconsole.NewConsoleProvider(nc.FromAddress)
		logx.Warn("  ⚠️  Using console email provider, codes are only logged")
	}

	c.Email = notifx.NewClient(provider, notifx.WithTag("app", "storefront"))
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	emailNotifier, err := otpinfra.NewEmailOTPNotifier(c.Email, otpinfra.EmailNotifierConfig{
		CodeTTL: c.Config.OTP.TTL,
		Timeout: c.Config.OTP.DeliveryTimeout,
		Retries: c.Config.OTP.DeliveryRetries,
	})
	if err != nil {
		logx.Fatalf("Failed to initialize OTP email notifier: %v", err)
	}

	var notifier otp.NotificationService = emailNotifier
	if c.Config.OTP.DeliveryMode == config.DeliveryQueue {
		c.Jobs.Register(otpinfra.JobTypeDeliver, otpinfra.DeliverHandler(emailNotifier))
		notifier = otpinfra.NewQueuedOTPNotifier(c.Jobs, c.Config.Jobx.Queues[0])
		logx.Info("  ✅ OTP delivery through job queue")
	}

	c.IAM, err = iamcontainer.New(iamcontainer.Deps{
		DB:          c.DB,
		Cfg:         c.Config,
		OTPNotifier: notifier,
	})
	if err != nil {
		logx.Fatalf("Failed to initialize IAM module: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.IAM.Bootstrap(ctx); err != nil {
		logx.Fatalf("Failed to bootstrap owner account: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) StartBackgroundServices(ctx context.Context) {
	if c.Config.OTP.DeliveryMode != config.DeliveryQueue {
		return
	}

	logx.Info("🔄 Starting background services...")
	go func() {
		if err := c.Jobs.Start(ctx); err != nil {
			logx.WithError(err).Error("job worker stopped")
		}
	}()
	logx.Info("  ✅ Job workers started")
}

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
