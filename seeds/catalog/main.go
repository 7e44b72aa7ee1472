package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/db"
	"github.com/tekashi/storefront/internal/model"
)

const (
	devAdminEmail    = "admin@storefront.test"
	devCustomerEmail = "customer@storefront.test"
	devPassword      = "storefront-dev"
)

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("Seeding storefront database...")

	users := core.NewUserService(pool)
	for _, u := range []struct{ name, email, role string }{
		{"Dev Admin", devAdminEmail, model.RoleAdmin},
		{"Dev Customer", devCustomerEmail, model.RoleCustomer},
	} {
		fmt.Printf("  Creating %s user %s...\n", u.role, u.email)
		_, err := users.Create(ctx, u.name, u.email, devPassword, "", "", u.role)
		if err != nil && !errors.Is(err, core.ErrConflict) {
			fmt.Fprintf(os.Stderr, "create user %s: %v\n", u.email, err)
			os.Exit(1)
		}
	}

	_, thisFile, _, _ := runtime.Caller(0)
	catalogPath := filepath.Join(filepath.Dir(thisFile), "catalog.yaml")

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read catalog.yaml: %v\n", err)
		os.Exit(1)
	}

	catalog, err := core.ParseCatalog(data, "application/yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Importing catalog...")
	report, err := core.NewCatalogService(pool).Import(ctx, catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import catalog: %v\n", err)
		os.Exit(1)
	}
	for _, e := range report.Errors {
		fmt.Fprintf(os.Stderr, "  skipped %s %q: %s\n", e.Kind, e.Name, e.Error)
	}

	fmt.Printf("Done. %d product types, %d products.\n", report.ProductTypes, report.Products)
	fmt.Printf("Login with %s or %s, password %q.\n", devAdminEmail, devCustomerEmail, devPassword)
}
