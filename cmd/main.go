package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookAppointmentHandler "github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers/get_appointment"
	getScheduleHandler "github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers/get_schedule"
	healthzHandler "github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers/healthz"
	listAllAppointmentsHandler "github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers/list_all_appointments"
	listAppointmentsHandler "github.com/m04kA/CareClarity-AppointmentService/internal/api/handlers/list_appointments"
	"github.com/m04kA/CareClarity-AppointmentService/internal/api/middleware"
	"github.com/m04kA/CareClarity-AppointmentService/internal/config"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/ledger"
	"github.com/m04kA/CareClarity-AppointmentService/internal/infra/storage/memory"
	bookingsService "github.com/m04kA/CareClarity-AppointmentService/internal/service/bookings"
	"github.com/m04kA/CareClarity-AppointmentService/internal/service/notifications"
	"github.com/m04kA/CareClarity-AppointmentService/internal/service/schedule"
	bookAppointmentUC "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/book_appointment"
	cancelAppointmentUC "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/cancel_appointment"
	getScheduleUC "github.com/m04kA/CareClarity-AppointmentService/internal/usecase/get_schedule"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/logger"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/metrics"
	"github.com/m04kA/CareClarity-AppointmentService/pkg/tracing"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CareClarity-AppointmentService...")

	ctx := context.Background()

	// Метрики. При выключенных метриках *Metrics остается nil, его методы ничего не делают
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Трассировка
	shutdownTracing := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracing, err = tracing.Init(ctx, tracing.Config{
			ServiceName: cfg.Metrics.ServiceName,
			Environment: cfg.Tracing.Environment,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			log.Fatal("Failed to initialize tracing: %v", err)
		}
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Durable леджер. Ошибка подключения не фатальна: сервис работает на transient леджере
	durableBackend, closeDurable := buildDurableLedger(ctx, cfg, log)
	defer closeDurable()
	durable := ledger.NewObserved(durableBackend.ledger, durableBackend.name, cfg.Ledger.Timeout(), metricsCollector)

	// Transient леджер живет столько же, сколько процесс
	transient := memory.NewLedger()
	if cfg.Ledger.SeedMemory {
		transient.Seed()
		log.Info("Transient ledger seeded with demo bookings")
	}
	transientObserved := ledger.NewObserved(transient, ledger.NameMemory, 0, metricsCollector)

	log.Info("Ledgers initialized (durable=%s, transient=%s, timeout=%s)",
		durable.Name(), transientObserved.Name(), cfg.Ledger.Timeout())

	// Уведомления
	sender, err := buildEmailSender(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize email sender: %v", err)
	}
	notifier := notifications.NewService(sender, metricsCollector, time.Duration(cfg.Email.Timeout)*time.Second, log)
	log.Info("Email notifications via %s", cfg.Email.Provider)

	// Сервисы и use cases
	schedules := schedule.NewResolverFromConfig(cfg.Schedule)
	bookingSvc := bookingsService.NewService(durable, transientObserved, metricsCollector, log)

	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(durable, transientObserved, schedules, notifier, metricsCollector, log)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(durable, transientObserved, notifier, metricsCollector, log)
	getScheduleUseCase := getScheduleUC.NewUseCase(durable, transientObserved, schedules, metricsCollector, log)

	// Handlers
	getSchedule := getScheduleHandler.NewHandler(getScheduleUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(bookingSvc, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(bookingSvc, log)
	listAllAppointments := listAllAppointmentsHandler.NewHandler(bookingSvc, log)
	healthz := healthzHandler.NewHandler(durable.Name())

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Tracing, middleware.RequestLogger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	r.HandleFunc("/healthz", healthz.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/doctors/{doctorId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Authorization: Bearer <JWT>)
	// ============================================================

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.AllowUnverified, log)
	if cfg.Auth.AllowUnverified {
		log.Warn("JWT signature verification is DISABLED (auth.allow_unverified)")
	}

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Auth)

	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Администрирование ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Auth, middleware.RequireAdmin(cfg.Auth.AdminEmails, log))
	admin.HandleFunc("/appointments", listAllAppointments.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся писем, отправка которых уже началась
	notifier.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
