package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aydinworks/content-advisor/internal/application"
	appadvisory "github.com/aydinworks/content-advisor/internal/application/advisory"
	appfeed "github.com/aydinworks/content-advisor/internal/application/feed"
	appsession "github.com/aydinworks/content-advisor/internal/application/session"
	"github.com/aydinworks/content-advisor/internal/config"
	"github.com/aydinworks/content-advisor/internal/domain/faults"
	"github.com/aydinworks/content-advisor/internal/domain/records"
	aiclient "github.com/aydinworks/content-advisor/internal/infra/ai/openai"
	"github.com/aydinworks/content-advisor/internal/infra/db/migrations"
	mysqlp "github.com/aydinworks/content-advisor/internal/infra/db/mysql"
	postgresp "github.com/aydinworks/content-advisor/internal/infra/db/postgres"
	"github.com/aydinworks/content-advisor/internal/infra/feedbus"
	"github.com/aydinworks/content-advisor/internal/infra/httpserver"
	"github.com/aydinworks/content-advisor/internal/infra/sessionstore"
	minioStore "github.com/aydinworks/content-advisor/internal/infra/storage"
	"github.com/aydinworks/content-advisor/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	checkers := map[string]middleware.HealthChecker{}

	// database (optional; absence = demo mode)
	var db *sql.DB
	var recordRepo records.Repository
	var faultRepo faults.Repository
	if cfg.DemoMode() {
		log.Println("no database configured, running in demo mode")
	} else {
		switch cfg.Database.Driver {
		case "postgres":
			db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		default:
			db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		}
		if err != nil {
			log.Fatalf("database connect error: %v", err)
		}
		defer db.Close()

		if err := migrations.Run(db, cfg.Database.Driver); err != nil {
			log.Fatalf("migration error: %v", err)
		}

		if cfg.Database.Driver == "postgres" {
			recordRepo = postgresp.NewRecordRepository(db)
			faultRepo = postgresp.NewFaultRepository(db)
		} else {
			recordRepo = mysqlp.NewRecordRepository(db)
			faultRepo = mysqlp.NewFaultRepository(db)
		}
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// session store (optional)
	sessionSvc := &appsession.Service{Clock: application.SystemClock{}}
	if cfg.SessionsEnabled() {
		store, err := sessionstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, time.Duration(cfg.Redis.SessionTTLHours)*time.Hour)
		if err != nil {
			// non-fatal: the app tolerates absent sessions indefinitely
			log.Printf("warn: redis connect error, sessions disabled: %v", err)
		} else {
			defer store.Close()
			sessionSvc.Store = store
			checkers["redis"] = middleware.PingChecker(store.Ping)
		}
	}

	// feed bus (optional, only useful alongside a database)
	var bus *feedbus.Bus
	if cfg.NATS.URL != "" && recordRepo != nil {
		bus, err = feedbus.Connect(cfg.NATS.URL)
		if err != nil {
			log.Printf("warn: nats connect error, live feed updates disabled: %v", err)
			bus = nil
		} else {
			defer bus.Close()
			checkers["nats"] = middleware.PingChecker(func(ctx context.Context) error {
				if !bus.IsConnected() {
					return fmt.Errorf("nats disconnected")
				}
				return nil
			})
		}
	}

	// report archive (optional)
	var archive appadvisory.ReportArchive
	if cfg.ArchiveEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Printf("warn: minio init error, report archive disabled: %v", err)
		} else {
			archive = store
		}
	}

	// analyzer service; a nil AI client makes the analyze endpoint answer
	// with the credential validation error without any network call
	analyzerSvc := &appadvisory.Service{
		Repo:    recordRepo,
		Faults:  faultRepo,
		Archive: archive,
		Clock:   application.SystemClock{},
	}
	if cfg.AIEnabled() {
		analyzerSvc.AI = aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	} else {
		log.Println("warn: no AI API key configured, analyze endpoint will reject requests")
	}
	if bus != nil {
		analyzerSvc.Bus = bus
	}

	// live feed: initial load, then bus-driven refresh
	feedSvc := appfeed.NewService(recordRepo)
	if recordRepo != nil {
		loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := feedSvc.Refresh(loadCtx); err != nil {
			log.Printf("warn: initial feed load failed: %v", err)
		}
		cancel()
	}
	if bus != nil {
		if err := bus.Subscribe(feedSvc.OnRecordCreated); err != nil {
			log.Printf("warn: feed subscription failed: %v", err)
		}
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(30, 2))
	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Handle("/metrics", middleware.MetricsHandler())
	mux.Mount("/", httpserver.NewRouter(analyzerSvc, feedSvc, sessionSvc, recordRepo, faultRepo))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams must not be cut off by a write deadline
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
