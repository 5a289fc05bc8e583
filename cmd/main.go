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
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2/google"

	actionLinkHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/action_link"
	cancelBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_booking"
	cancelSeriesHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_series"
	checkExtensionHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/check_extension"
	checkInHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/check_in"
	createBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_booking"
	createRecurringHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_recurring_booking"
	deleteBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/delete_booking"
	endBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/end_booking"
	extendBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/extend_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_booking"
	getRoomBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_room_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_user_bookings"
	markNoShowsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/mark_no_shows"
	overdueRemindersHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/overdue_reminders"
	quickBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/quick_booking"
	syncRoomHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/sync_room"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	deletedEventRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/deletedevent"
	deviceRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/device"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	"github.com/m04kA/SMC-RoomBookingService/internal/integrations/googlecalendar"
	bookingsService "github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/gsync"
	createBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
	createRecurringUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_recurring_booking"
	extendBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/extend_booking"
	availableSlotsUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_available_slots"
	quickBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/quick_booking"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

const calendarReadOnlyScope = "https://www.googleapis.com/auth/calendar.readonly"

func main() {
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

	log.Info("Starting SMC-RoomBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		deletedEventRepository *deletedEventRepo.Repository
		roomRepository         *roomRepo.Repository
		deviceRepository       *deviceRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		deletedEventRepository = deletedEventRepo.NewRepository(wrappedDB)
		roomRepository = roomRepo.NewRepository(wrappedDB)
		deviceRepository = deviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		deletedEventRepository = deletedEventRepo.NewRepository(db)
		roomRepository = roomRepo.NewRepository(db)
		deviceRepository = deviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем адаптер синхронизации с Google Calendar.
	// Без файла учетных данных сервис работает автономно.
	var syncSvc bookingsService.SyncService

	if cfg.Google.CredentialsFile != "" {
		credentials, err := os.ReadFile(cfg.Google.CredentialsFile)
		if err != nil {
			log.Fatal("Failed to read Google credentials file: %v", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(credentials, calendarReadOnlyScope)
		if err != nil {
			log.Fatal("Failed to parse Google credentials: %v", err)
		}

		calendarClient := googlecalendar.NewClient(
			cfg.Google.BaseURL,
			jwtConfig.TokenSource(context.Background()),
			time.Duration(cfg.Google.Timeout)*time.Second,
			cfg.Google.RequestsPerSecond,
			log,
		)

		var syncMetrics gsync.Metrics = gsync.NopMetrics{}
		if cfg.Metrics.Enabled {
			syncMetrics = metricsCollector
		}

		syncSvc = gsync.NewService(
			bookingRepository,
			deletedEventRepository,
			roomRepository,
			calendarClient,
			gsync.Config{
				CreationGrace: time.Duration(cfg.Sync.CreationGraceMinutes) * time.Minute,
				MinInterval:   time.Duration(cfg.Sync.MinIntervalSeconds) * time.Second,
				Lookbehind:    time.Duration(cfg.Sync.LookbehindHours) * time.Hour,
				Lookahead:     time.Duration(cfg.Sync.LookaheadDays) * 24 * time.Hour,
			},
			syncMetrics,
			log,
		)
		log.Info("Google Calendar sync enabled (base_url=%s)", cfg.Google.BaseURL)
	} else {
		log.Info("Google Calendar sync disabled: no credentials file configured")
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		roomRepository,
		deletedEventRepository,
		syncSvc,
		bookingsService.Policy{
			CheckInEarly: time.Duration(cfg.Booking.CheckInEarlyMinutes) * time.Minute,
			CheckInLate:  time.Duration(cfg.Booking.CheckInLateMinutes) * time.Minute,
			NoShowGrace:  time.Duration(cfg.Booking.NoShowGraceMinutes) * time.Minute,
		},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(bookingRepository, roomRepository, txMgr, log)
	createRecurringUseCase := createRecurringUC.NewUseCase(bookingRepository, roomRepository, txMgr, log)
	quickBookingUseCase := quickBookingUC.NewUseCase(
		bookingRepository,
		deviceRepository,
		txMgr,
		quickBookingUC.Config{
			DefaultDuration: time.Duration(cfg.Booking.QuickBookingDefaultMinutes) * time.Minute,
			MaxDuration:     time.Duration(cfg.Booking.QuickBookingMaxMinutes) * time.Minute,
		},
		log,
	)
	extendBookingUseCase := extendBookingUC.NewUseCase(bookingRepository, txMgr, log)
	availableSlotsUseCase := availableSlotsUC.NewUseCase(
		bookingRepository,
		roomRepository,
		availableSlotsUC.Config{
			SlotStep: time.Duration(cfg.Booking.SlotStepMinutes) * time.Minute,
			DayStart: cfg.Booking.DayStartHour,
			DayEnd:   cfg.Booking.DayEndHour,
		},
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createRecurring := createRecurringHandler.NewHandler(createRecurringUseCase, log)
	quickBooking := quickBookingHandler.NewHandler(quickBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getRoomBookings := getRoomBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(availableSlotsUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	cancelSeries := cancelSeriesHandler.NewHandler(bookingSvc, log)
	checkIn := checkInHandler.NewHandler(bookingSvc, log)
	endBooking := endBookingHandler.NewHandler(bookingSvc, log)
	extendBooking := extendBookingHandler.NewHandler(extendBookingUseCase, log)
	checkExtension := checkExtensionHandler.NewHandler(extendBookingUseCase, log)
	actionLink := actionLinkHandler.NewHandler(bookingSvc, extendBookingUseCase, log)
	markNoShows := markNoShowsHandler.NewHandler(bookingSvc, log)
	overdueReminders := overdueRemindersHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание переговорной (инфопанели, планшеты)
	api.HandleFunc("/rooms/{roomId}/bookings", getRoomBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Одноразовые ссылки действий из писем-напоминаний
	api.HandleFunc("/actions/{token}", actionLink.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/actions/{token}", actionLink.HandlePost).Methods(http.MethodPost)

	// Планшет у переговорной (аутентификация по X-Device-Key)
	api.HandleFunc("/tablet/quick-booking", quickBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/recurring", createRecurring.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel-series", cancelSeries.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/check-in", checkIn.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/end", endBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/extend", extendBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/extension-availability", checkExtension.Handle).Methods(http.MethodGet)

	// --- Мои бронирования ---
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Синхронизация с календарем ---
	if syncSvc != nil {
		syncRoom := syncRoomHandler.NewHandler(syncSvc, log)
		protected.HandleFunc("/rooms/{roomId}/sync", syncRoom.Handle).Methods(http.MethodPost)
	}

	// ============================================================
	// CRON ROUTES (защищены статическим токеном)
	// ============================================================

	cron := api.PathPrefix("/cron").Subrouter()
	cron.Use(middleware.CronAuth(cfg.Cron.AuthToken))

	cron.HandleFunc("/mark-no-shows", markNoShows.Handle).Methods(http.MethodPost)
	cron.HandleFunc("/overdue-reminders", overdueReminders.Handle).Methods(http.MethodPost)

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
