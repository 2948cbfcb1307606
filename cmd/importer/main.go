package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"capibara-storefront/internal/apiclient"
	"capibara-storefront/internal/config"
	"capibara-storefront/internal/importer"
	"capibara-storefront/internal/logging"
	productrepo "capibara-storefront/internal/repository/product"
	"capibara-storefront/internal/repository/slot"
	cartsvc "capibara-storefront/internal/service/cart"
	productsvc "capibara-storefront/internal/service/product"
)

func main() {
	var filePath, storefrontURL string
	flag.StringVar(&filePath, "file", "", "Path to a productId,quantity CSV shopping list")
	flag.StringVar(&storefrontURL, "storefront", "", "Storefront base URL checked before importing (default derived from HTTP_ADDR)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := config.LoadDotEnv(os.Getenv("DOTENV_PATH")); err != nil {
		bootLogger := logging.New("info", "importer")
		bootLogger.Fatal().Err(err).Msg("load .env")
	}
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "importer")
	ctx := context.Background()

	if storefrontURL == "" {
		storefrontURL = localURL(cfg.HTTPAddr)
	}
	probe := apiclient.New(apiclient.Options{BaseURL: storefrontURL, Timeout: 2 * time.Second, Logger: logger})
	if err := importer.EnsureStorefrontIdle(ctx, probe); err != nil {
		logger.Fatal().Err(err).Str("storefront", storefrontURL).Msg("refusing to import")
	}

	slots, closeSlots, err := slot.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open slot backend")
	}
	defer closeSlots()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	client := apiclient.New(apiclient.Options{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.APITimeout,
		MaxFailures: cfg.BreakerMaxFailures,
		Logger:      logger,
	})
	products := productsvc.New(productrepo.NewHTTP(client, logger))
	cart := cartsvc.NewStore(ctx, slots, cfg.CartSlotKey, logger)

	imp := importer.NewCSVImporter(f, products, cart)

	start := time.Now()
	report, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Int("added", report.Added).Msg("import failed")
	}
	for _, s := range report.Skipped {
		logger.Warn().Int("line", s.Line).Int64("product_id", s.ProductID).Str("reason", s.Reason).Msg("row skipped")
	}

	fmt.Printf("Added %d rows (%d units) to the cart in %s; cart now holds %d items totalling %s\n",
		report.Added, report.Units, time.Since(start).Truncate(time.Millisecond), cart.TotalItems(), cart.TotalPrice().StringFixed(2))
}

func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
