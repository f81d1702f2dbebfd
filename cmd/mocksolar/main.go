// Package main implements a standalone stand-in for the remote solar backend
// API, for development and E2E testing of the gateway. Accounts live in
// SQLite with bcrypt password hashes; tokens are signed and verified HS256.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"

	"github.com/bsv-th/solar-dashboard/internal/catalog"
	"github.com/bsv-th/solar-dashboard/internal/storage"
)

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// seed provisions the default admin account and the station rows on first
// start. Existing rows are left alone.
func seed(ctx context.Context, store storage.Storage, adminPassword string) error {
	if _, err := store.GetUser(ctx, "admin"); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := store.CreateUser(ctx, "admin", string(hash), "admin", ""); err != nil {
		return err
	}

	for _, st := range catalog.All() {
		if err := store.UpsertStation(ctx, st.Key, nil); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	addr := ":" + getEnv("PORT", "9000")
	dbPath := getEnv("MOCKSOLAR_DB", "mocksolar.db")
	secret := getEnv("MOCKSOLAR_JWT_SECRET", "mocksolar-dev-secret")
	adminPassword := getEnv("MOCKSOLAR_ADMIN_PASSWORD", "admin")

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := seed(context.Background(), store, adminPassword); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: newServer(store, []byte(secret), nil).router(),
	}

	done := make(chan bool)
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down mocksolar server...")
		//nolint:errcheck
		srv.Close()
		close(done)
	}()

	log.Printf("mocksolar listening on %s (db %s)", addr, dbPath)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	<-done
	log.Println("mocksolar stopped")
}
