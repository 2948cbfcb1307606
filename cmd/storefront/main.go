package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"capibara-storefront/internal/apiclient"
	"capibara-storefront/internal/config"
	"capibara-storefront/internal/httpserver"
	"capibara-storefront/internal/logging"
	authrepo "capibara-storefront/internal/repository/auth"
	orderrepo "capibara-storefront/internal/repository/order"
	productrepo "capibara-storefront/internal/repository/product"
	"capibara-storefront/internal/repository/slot"
	cartsvc "capibara-storefront/internal/service/cart"
	categorysvc "capibara-storefront/internal/service/category"
	checkoutsvc "capibara-storefront/internal/service/checkout"
	ordersvc "capibara-storefront/internal/service/order"
	productsvc "capibara-storefront/internal/service/product"
	sessionsvc "capibara-storefront/internal/service/session"
)

func main() {
	if err := config.LoadDotEnv(os.Getenv("DOTENV_PATH")); err != nil {
		bootLogger := logging.New("info", "storefront")
		bootLogger.Fatal().Err(err).Msg("load .env")
	}
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "storefront")

	ctx := context.Background()
	slots, closeSlots, err := slot.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.SlotBackend).Msg("open slot backend")
	}
	defer closeSlots()

	session := sessionsvc.NewStore(ctx, slots, logger.With().Str("module", "session").Logger())
	client := apiclient.New(apiclient.Options{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.APITimeout,
		MaxFailures: cfg.BreakerMaxFailures,
		Credentials: session,
		Logger:      logger.With().Str("module", "apiclient").Logger(),
	})

	productRepo := productrepo.NewHTTP(client, logger)
	productService := productsvc.New(productRepo)
	categoryService := categorysvc.New(productRepo)
	orderService := ordersvc.New(orderrepo.NewHTTP(client, logger))
	sessionService := sessionsvc.NewService(authrepo.NewHTTP(client, logger), session)

	cart := cartsvc.NewStore(ctx, slots, cfg.CartSlotKey, logger.With().Str("module", "cart").Logger())
	checkout := checkoutsvc.New(cart, session, orderService, logger.With().Str("module", "checkout").Logger())

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Slots:       slots,
		ProductSvc:  productService,
		CategorySvc: categoryService,
		Cart:        cart,
		Checkout:    checkout,
		SessionSvc:  sessionService,
		OrderSvc:    orderService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("api", cfg.APIBaseURL).
			Str("slot_backend", cfg.SlotBackend).
			Int("cart_lines", len(cart.Lines())).
			Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
