package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"order-map-service/internal/adapters/geocode"
	"order-map-service/internal/adapters/render"
	"order-map-service/internal/adapters/repositories"
	"order-map-service/internal/adapters/surface"
	"order-map-service/internal/api"
	"order-map-service/internal/config"
	"order-map-service/internal/platform/db"
	"order-map-service/internal/ports"
	"order-map-service/internal/services"
	"order-map-service/internal/session"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres order store, HTTP geocode
// lookup, scene renderer) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/orders.json")
	port := config.Get("PORT", "8080")

	geocodeURL := os.Getenv("GEOCODE_BASE_URL")
	if strings.TrimSpace(geocodeURL) == "" {
		log.Fatal("GEOCODE_BASE_URL is required")
	}
	geocodeKey := os.Getenv("GEOCODE_API_KEY")

	repo, closeDB, err := openOrderRepository(dbPath, seedPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closeDB()

	provider, err := geocode.NewHTTPGeocodeProvider(geocodeURL, geocodeKey)
	if err != nil {
		log.Fatal(err)
	}

	resolver := services.NewResolver(provider)
	renderer := render.NewSceneRenderer()
	surfaces := surface.NewRegistry()
	manager := session.NewManager(repo, resolver, surfaces, renderer, session.Config{})

	router := api.NewRouter(repo, manager, renderer, surfaces)

	// Write timeout leaves headroom for slow geocode fan-outs behind /track.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openOrderRepository prefers Postgres when DATABASE_URL is set, otherwise
// falls back to a local SQLite file seeded with demo orders.
func openOrderRepository(dbPath, seedPath string) (ports.OrderRepository, func(), error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewSQLOrderRepository(pg), func() { pg.Close() }, nil
	}

	local, err := openSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}

	// Initialize schema and seed demo data on startup for local runs.
	if err := repositories.InitSchema(local); err != nil {
		local.Close()
		return nil, nil, err
	}
	if err := repositories.SeedFromJSON(local, seedPath); err != nil {
		local.Close()
		return nil, nil, err
	}

	return repositories.NewSqliteOrderRepository(local), func() { local.Close() }, nil
}

func openSqlite(dbPath string) (*sql.DB, error) {
	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := sqliteDB.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sqliteDB, nil
}
