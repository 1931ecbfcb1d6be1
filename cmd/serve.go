package cmd

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edusoft-mn/ms-go-course-payments/app/controller"
	"github.com/edusoft-mn/ms-go-course-payments/app/docstore"
	"github.com/edusoft-mn/ms-go-course-payments/app/gateway"
	"github.com/edusoft-mn/ms-go-course-payments/app/repository"
	"github.com/edusoft-mn/ms-go-course-payments/app/service"
	"github.com/edusoft-mn/ms-go-course-payments/app/types"
	"github.com/edusoft-mn/ms-go-course-payments/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the course payments service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, paymentService, methodRegistry, cleanup := mustCreatePaymentService()
	defer cleanup()

	paymentController := controller.NewPaymentController(paymentService, methodRegistry)
	e := setupHTTPServer(paymentController, cfg.App.AdminAPIKey)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(paymentController *controller.PaymentController, adminAPIKey string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", paymentController.Health)

	payments := e.Group("/payments")
	payments.GET("/methods", paymentController.ListPaymentMethods)
	payments.GET("/:orderId/status", paymentController.CheckPaymentStatus)
	payments.GET("/:orderId/status/stream", paymentController.StreamPaymentStatus)
	payments.POST("/:orderId/simulate", paymentController.SimulatePayment)
	payments.POST("/:orderId/verifications", paymentController.AddVerification)
	payments.GET("/:orderId/verifications", paymentController.ListVerifications)

	admin := e.Group("/admin", requireAdminKey(adminAPIKey))
	admin.POST("/orders/:orderId/complete", paymentController.CompletePayment)
	admin.POST("/orders/:orderId/cancel", paymentController.CancelOrder)

	return e
}

// requireAdminKey gates the back-office endpoints with the configured
// API key. An empty configured key disables the admin surface rather
// than leaving it open.
func requireAdminKey(adminAPIKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			provided := strings.TrimSpace(ctx.Request().Header.Get("X-Admin-Key"))
			if adminAPIKey == "" || provided != adminAPIKey {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "invalid admin key"})
			}
			return next(ctx)
		}
	}
}

func mustCreatePaymentService() (*config.Config, *service.PaymentService, *gateway.MethodRegistry, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	store, cleanup := mustCreateStore(cfg)

	statusRepo := repository.NewPaymentStatusRepository(store)
	verificationRepo := repository.NewVerificationRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	userRepo := repository.NewUserRepository(store)
	rewardRepo := repository.NewRewardRepository(store)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	simulator := gateway.NewSimulator(
		gateway.NewRandomPolicy(cfg.Gateway.ApprovalPercent, rng),
		cfg.Gateway.Latency,
	)
	methodRegistry := gateway.NewMethodRegistry()

	paymentService := service.NewPaymentService(
		statusRepo,
		verificationRepo,
		orderRepo,
		userRepo,
		rewardRepo,
		simulator,
		cfg.Referral,
	)

	return cfg, paymentService, methodRegistry, cleanup
}

func mustCreateStore(cfg *config.Config) (docstore.Store, func()) {
	if cfg.Redis.Addr == "" {
		logrus.Warn("REDIS_ADDR not set, using in-memory document store")
		return docstore.NewMemoryStore(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := docstore.NewRedisStore(client, cfg.Redis.KeyPrefix)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		logrus.WithError(err).Fatal("Failed to ping document store")
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close document store client")
		}
	}
	return store, cleanup
}
