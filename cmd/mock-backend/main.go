package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"storefront/internal/logging"
	"storefront/internal/mockapi"
	"storefront/internal/models"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var addr, secret, logLevel string
	var seed bool
	flags := pflag.NewFlagSet("mock-backend", pflag.ContinueOnError)
	flags.StringVar(&addr, "addr", ":5555", "listen address")
	flags.StringVar(&secret, "jwt-secret", "mock-backend-secret", "HS256 key for bearer tokens")
	flags.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flags.BoolVar(&seed, "seed", true, "load demo users, categories and products")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	slog.SetDefault(logging.New(logLevel))

	api := mockapi.New(secret)
	if seed {
		if err := seedDemo(api); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api,
		ReadHeaderTimeout: 3 * time.Second,
	}
	go func() {
		slog.Info("Mock backend listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedDemo(api *mockapi.Server) error {
	admin, err := api.AddUser("Admin", "admin@example.com", "admin123", models.RoleAdmin)
	if err != nil {
		return err
	}
	user, err := api.AddUser("Demo User", "user@example.com", "user123", "user")
	if err != nil {
		return err
	}

	tools := api.AddCategory("tools")
	garden := api.AddCategory("garden")

	hammer := api.AddProduct(models.ProductInput{
		Name: "Claw Hammer", Price: decimal.RequireFromString("12.50"), Stock: 4,
		Description: "Forged steel head with a **fibreglass** handle.", Category: tools.ID,
	})
	api.AddProduct(models.ProductInput{
		Name: "Hand Saw", Price: decimal.RequireFromString("19.90"), Stock: 12,
		Description: "22 inch blade, 8 teeth per inch.", Category: tools.ID,
	})
	api.AddProduct(models.ProductInput{
		Name: "Watering Can", Price: decimal.RequireFromString("8.00"), Stock: 30,
		Description: "Holds 10 litres.\n\n- rust free\n- detachable rose", Category: garden.ID,
	})

	api.AddComment(hammer.ID, user.ID, "Good balance, comfortable grip.")
	api.AddComment(hammer.ID, admin.ID, "Restock arriving next week.")

	slog.Info("Seeded demo data",
		"admin", admin.Email, "user", user.Email, "categories", 2, "products", 3)
	return nil
}
