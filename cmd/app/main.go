package main

import (
	"database/sql"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/minishop/order-backend/internal/auth"
	"github.com/minishop/order-backend/internal/config"
	"github.com/minishop/order-backend/internal/middleware"
	"github.com/minishop/order-backend/internal/order"
	"github.com/minishop/order-backend/internal/pricing"
	"github.com/minishop/order-backend/internal/product"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := newLogger()

	db := mustOpenDB(cfg.DatabaseURL, logger)
	defer db.Close()

	if err := bootstrapSchema(db); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	rules := pricing.RulesFromEnv()

	app := fiber.New()
	setupCORS(app)
	app.Use(middleware.RequestLogger(logger))

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	orderRepo := order.NewPostgresRepository(db, rules)
	orderService := order.NewService(orderRepo)
	orderHandler := order.NewHandler(orderService)

	authHandler := auth.NewHandler(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret)

	// public routes first; everything registered after the jwtware middleware
	// requires an admin token
	authHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	productHandler.RegisterProtectedRoutes(app)

	logger.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger() zerolog.Logger {
	out := io.Writer(os.Stdout)
	if os.Getenv("APP_ENV") != "production" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string, logger zerolog.Logger) *sql.DB {
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open database")
	}

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("could not reach database")
	}

	return db
}

func bootstrapSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			product_desc TEXT,
			price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
			inventory INT NOT NULL CHECK (inventory >= 0),
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
			shipping_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_item_id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(order_id),
			product_id INT NOT NULL REFERENCES products(product_id),
			quantity INT NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			discount_applied BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
