package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kochabx/authkit/app"
	"github.com/kochabx/authkit/config"
	"github.com/kochabx/authkit/core/auth"
	"github.com/kochabx/authkit/core/auth/jwt"
	sessionredis "github.com/kochabx/authkit/core/auth/session/redis"
	"github.com/kochabx/authkit/core/rate"
	"github.com/kochabx/authkit/core/user"
	"github.com/kochabx/authkit/log"
	middleware "github.com/kochabx/authkit/middleware/http"
	"github.com/kochabx/authkit/settings"
	"github.com/kochabx/authkit/store/db"
	"github.com/kochabx/authkit/store/kafka"
	"github.com/kochabx/authkit/store/redis"
	khttp "github.com/kochabx/authkit/transport/http"
	"github.com/kochabx/authkit/transport/http/metrics"
)

const (
	startupTimeout    = 30 * time.Second
	signInLimitPrefix = "RateLimit:SignIn:"
)

func main() {
	file := flag.String("config", os.Getenv("AUTHKIT_CONFIG"), "path to the configuration file")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "authd: %v\n", err)
		os.Exit(1)
	}
}

func run(file string) error {
	var (
		s   *settings.Settings
		cfg *config.Config
		err error
	)
	s, cfg, err = settings.Load(file, config.WithOnChange(func() {
		unlock := cfg.RLock()
		level := s.Log.Level
		unlock()
		if l, err := zerolog.ParseLevel(level); err == nil {
			zerolog.SetGlobalLevel(l)
		}
	}))
	if err != nil {
		return err
	}

	logger, err := log.NewFromConfig(s.Log)
	if err != nil {
		return err
	}
	log.SetGlobalLogger(logger)
	if s.Log.Level != "debug" && s.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	application := app.New(
		app.WithLogger(logger),
		app.WithShutdownTimeout(s.App.ShutdownTimeout),
		app.WithClose("logger", func(context.Context) error { return logger.Close() }, 0),
	)
	if err := setup(application, s, logger); err != nil {
		logger.Error().Err(err).Msg("startup failed")
		application.Close()
		return err
	}

	if err := cfg.Watch(); err != nil {
		logger.Warn().Err(err).Msg("config watch disabled")
	}
	return application.Start()
}

func setup(application *app.Application, s *settings.Settings, logger *log.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	dbc, err := db.New(ctx, &s.Database, db.WithLogger(logger))
	if err != nil {
		return err
	}
	_ = application.RegisterClose("database", func(context.Context) error { return dbc.Close() }, 0)
	if s.Database.Migrate {
		if err := dbc.Migrate(ctx, user.Migrations()); err != nil {
			return err
		}
	}

	rdb, err := redis.New(ctx, &s.Redis, redis.WithLogger(logger))
	if err != nil {
		return err
	}
	_ = application.RegisterClose("redis", func(context.Context) error { return rdb.Close() }, 0)

	codec, err := jwt.New(s.JWT)
	if err != nil {
		return err
	}

	prom := metrics.New("authkit")
	authMetrics, err := auth.NewMetrics(prom.Registry())
	if err != nil {
		return err
	}

	opts := []auth.Option{
		auth.WithKeyspace(s.Session),
		auth.WithLogger(logger),
		auth.WithMetrics(authMetrics),
		auth.WithBcryptCost(s.App.BcryptCost),
		auth.WithOpenRegistration(s.App.OpenRegistration),
	}
	if s.Audit.Enabled {
		kc, err := kafka.New(&s.Audit.Kafka, kafka.WithLogger(logger))
		if err != nil {
			return err
		}
		_ = application.RegisterClose("kafka", func(context.Context) error { return kc.Close() }, 0)

		w, err := kc.AsyncProducer(s.Audit.Topic)
		if err != nil {
			return err
		}
		opts = append(opts, auth.WithAuditor(auth.NewKafkaAuditor(w, logger)))
	}

	svc := auth.New(codec, user.NewGormDirectory(dbc.DB()), sessionredis.New(rdb), opts...)

	if s.FirstSuperuser.Enabled() {
		su := s.FirstSuperuser
		if _, err := svc.EnsureSuperuser(ctx, su.Email, su.Password, su.FullName); err != nil {
			return fmt.Errorf("ensure first superuser: %w", err)
		}
	}

	var limiter middleware.RateLimiter
	if l := s.App.SignInLimit; l.Enabled {
		limiter = rate.NewSlidingWindowLimiter(rdb.UniversalClient(), signInLimitPrefix, l.Window, l.Limit)
	}

	srv := khttp.NewServer(s.App.Addr, newRouter(s, svc, prom, logger, limiter),
		khttp.WithName(s.App.Name),
		khttp.WithLogger(logger),
		khttp.WithMetricsOptions(s.HTTP.Metrics, prom),
		khttp.WithHealthOptions(s.HTTP.Health, map[string]khttp.HealthCheck{
			"redis":    rdb.Ping,
			"database": dbc.Ping,
		}),
		khttp.WithTimeoutOptions(s.HTTP.Timeouts),
	)
	return application.AddServer(srv)
}
