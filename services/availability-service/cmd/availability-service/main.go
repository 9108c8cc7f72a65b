package main

import (
	"context"
	"net/http"
	"time"

	"github.com/salonflow/salonflow/libs/config"
	"github.com/salonflow/salonflow/libs/db"
	"github.com/salonflow/salonflow/libs/httpx"
	"github.com/salonflow/salonflow/libs/kafkax"
	otelx "github.com/salonflow/salonflow/libs/otel"
	"github.com/salonflow/salonflow/libs/runtime"
	"github.com/salonflow/salonflow/services/availability-service/internal/catalog"
	"github.com/salonflow/salonflow/services/availability-service/internal/consumer"
	"github.com/salonflow/salonflow/services/availability-service/internal/handlers"
	"github.com/salonflow/salonflow/services/availability-service/internal/inbox"
	"github.com/salonflow/salonflow/services/availability-service/internal/outbox"
	"github.com/salonflow/salonflow/services/availability-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "availability-service")
	port, err := config.Port("PORT", "8082")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	apptRepo := storage.NewAppointmentRepository(pool)
	scheduleRepo := storage.NewScheduleRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	catalogProvider, err := catalog.NewProvider(logger, pool, config.String("SCHEDULE_GRPC_ADDR", ""))
	if err != nil {
		logger.Error("catalog provider init failed; using read model", "err", err)
		catalogProvider = catalog.NewDBProvider(pool)
	}

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	// One consumer per schedule topic, all folding into the read model.
	brokers := config.String("KAFKA_BROKERS", "")
	if brokers != "" {
		inboxRepo := inbox.NewRepository(pool)
		applier := consumer.NewScheduleApplier(logger, scheduleRepo)
		groupID := config.String("KAFKA_GROUP_ID", "availability-service")
		for _, topic := range consumer.ScheduleTopics {
			c := consumer.New(logger, inboxRepo, consumer.Config{
				Brokers: brokers,
				GroupID: groupID,
				Topic:   topic,
			}, applier)
			go c.Run(ctx)
		}
	}

	availabilityHandler := handlers.NewAvailabilityHandler(scheduleRepo, apptRepo, catalogProvider, logger)
	appointmentHandler := handlers.NewAppointmentHandler(apptRepo, scheduleRepo, catalogProvider, outboxRepo, logger)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	mux.HandleFunc("/api/v1/public/availability", availabilityHandler.Days)
	mux.HandleFunc("/api/v1/public/slots", availabilityHandler.Slots)
	mux.HandleFunc("/api/v1/public/summary", availabilityHandler.Summary)
	mux.HandleFunc("/api/v1/public/validate-booking", availabilityHandler.Validate)
	mux.HandleFunc("/api/v1/public/next-available", availabilityHandler.NextAvailable)
	mux.HandleFunc("/api/v1/public/book", appointmentHandler.Book)
	mux.HandleFunc("/api/v1/appointments", appointmentHandler.List)
	mux.HandleFunc("/api/v1/appointments/cancel", appointmentHandler.Cancel)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "availability")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
