package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	addNoteHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/add_note"
	cancelReservationHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/cancel_reservation"
	completeReservationHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/complete_reservation"
	confirmReservationHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/confirm_reservation"
	createReservationHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/get_reservation"
	getStatsHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/get_stats"
	listReservationsHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/list_reservations"
	notificationsHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/notifications"
	rejectReservationHandler "github.com/peluqueriacool/PC-ReservationService/internal/api/handlers/reject_reservation"
	"github.com/peluqueriacool/PC-ReservationService/internal/api/middleware"
	"github.com/peluqueriacool/PC-ReservationService/internal/availability"
	"github.com/peluqueriacool/PC-ReservationService/internal/config"
	"github.com/peluqueriacool/PC-ReservationService/internal/infra/cache"
	"github.com/peluqueriacool/PC-ReservationService/internal/infra/notify"
	notificationRepo "github.com/peluqueriacool/PC-ReservationService/internal/infra/storage/notification"
	reservationRepo "github.com/peluqueriacool/PC-ReservationService/internal/infra/storage/reservation"
	"github.com/peluqueriacool/PC-ReservationService/internal/schedule"
	notificationsService "github.com/peluqueriacool/PC-ReservationService/internal/service/notifications"
	reservationsService "github.com/peluqueriacool/PC-ReservationService/internal/service/reservations"
	createReservationUC "github.com/peluqueriacool/PC-ReservationService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/peluqueriacool/PC-ReservationService/internal/usecase/get_available_slots"
	"github.com/peluqueriacool/PC-ReservationService/pkg/dbmetrics"
	"github.com/peluqueriacool/PC-ReservationService/pkg/logger"
	"github.com/peluqueriacool/PC-ReservationService/pkg/metrics"
	"github.com/peluqueriacool/PC-ReservationService/pkg/simpletxmanager"
	"github.com/peluqueriacool/PC-ReservationService/pkg/txmanager"
)

func main() {
	// Подхватываем .env, если он есть (секреты вне config.toml)
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting PC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Загружаем бизнес-календарь салона
	calendar, err := schedule.Load(cfg.Schedule.File)
	if err != nil {
		log.Fatal("Failed to load schedule: %v", err)
	}
	log.Info("Schedule loaded from %s (%d services, advance window %d..%d days, allow_overlap=%t)",
		cfg.Schedule.File, len(calendar.Services), calendar.MinAdvanceDays, calendar.MaxAdvanceDays, calendar.AllowOverlap)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository  *reservationRepo.Repository
		notificationRepository *notificationRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем приемники уведомлений
	var rawSinks []notify.Sink
	rawSinks = append(rawSinks, notify.NewStoreSink(notificationRepository))

	var amqpSink *notify.AMQPSink
	if cfg.AMQP.Enabled {
		amqpSink, err = notify.NewAMQPSink(cfg.AMQP.URL, cfg.AMQP.Queue, log)
		if err != nil {
			// Очередь - best-effort канал: без нее сервис продолжает работать
			log.Error("Failed to connect to AMQP, continuing without queue sink: %v", err)
		} else {
			defer amqpSink.Close()
			rawSinks = append(rawSinks, amqpSink)
			log.Info("AMQP sink connected (queue=%s)", cfg.AMQP.Queue)
		}
	}

	sinkNames := []string{"store", "amqp"}
	sinks := make([]notify.Sink, len(rawSinks))
	for i, s := range rawSinks {
		if cfg.Metrics.Enabled {
			sinks[i] = notify.NewInstrumentedSink(sinkNames[i], s, metricsCollector)
		} else {
			sinks[i] = s
		}
	}
	notificationSink := notify.NewMultiSink(log, sinks...)

	// Инициализируем кеш статистики (если включен Redis)
	var statsCache reservationsService.StatsCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Error("Failed to ping Redis, continuing without stats cache: %v", err)
		} else {
			statsCache = cache.NewStatsCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			log.Info("Stats cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
		}
	}

	// Инициализируем resolver доступности
	timeProvider := &availability.RealTimeProvider{}
	resolver := availability.NewResolver(calendar, timeProvider)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		statsCache,
		timeProvider,
		log,
	)
	notificationSvc := notificationsService.NewService(notificationRepository, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		resolver,
		notificationSink,
		txMgr,
		calendar,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.New(
		reservationRepository,
		resolver,
		calendar,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	confirmReservation := confirmReservationHandler.NewHandler(reservationSvc, log)
	rejectReservation := rejectReservationHandler.NewHandler(reservationSvc, log)
	completeReservation := completeReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	addNote := addNoteHandler.NewHandler(reservationSvc, log)
	getStats := getStatsHandler.NewHandler(reservationSvc, log)
	notifications := notificationsHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (форма записи клиента)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание брони
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (дашборд персонала, требуют X-Staff-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Брони ---
	// Список броней с фильтрацией
	protected.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)

	// Бронь по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Переходы жизненного цикла
	protected.HandleFunc("/reservations/{reservationId}/confirm", confirmReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/reject", rejectReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/complete", completeReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// Заметки персонала
	protected.HandleFunc("/reservations/{reservationId}/notes", addNote.Handle).Methods(http.MethodPost)

	// --- Дашборд ---
	// Счетчики
	protected.HandleFunc("/stats", getStats.Handle).Methods(http.MethodGet)

	// Уведомления
	protected.HandleFunc("/notifications", notifications.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", notifications.HandleMarkRead).Methods(http.MethodPatch)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
