// Package serve implements the command that runs the HTTP API.
package serve

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"productcrud/internal/config"
	"productcrud/internal/database"
	"productcrud/internal/handlers"
	"productcrud/internal/repositories"
	"productcrud/internal/server"
	"productcrud/internal/services"
	"productcrud/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const portFlag = "port"

// NewServeCommand returns the serve command. Flags are bound into v.
func NewServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the products HTTP API",
		Long: `Run the products HTTP API.

Settings come from environment variables (APP_PORT, DATABASE_DRIVER,
DATABASE_DSN, DATABASE_AUTO_MIGRATE, RABBITMQ_URL, EVENTS_CONSUME), an
optional --config file and flags, with flags taking precedence.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().String(portFlag, "", "Address to listen on, e.g. :8080 (overrides APP_PORT)")
	if err := v.BindPFlag("APP_PORT", cmd.Flags().Lookup(portFlag)); err != nil {
		panic(err)
	}
	return cmd
}

// OpenRepository builds the product repository for cfg. The returned
// *gorm.DB is nil for the in-memory driver.
func OpenRepository(cfg config.DatabaseConfig) (repositories.ProductRepository, *gorm.DB, error) {
	if cfg.Driver == config.DriverMemory {
		log.Println("Using in-memory product store")
		return repositories.NewInMemoryProductRepository(), nil, nil
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Connected to %s database", cfg.Driver)
	return repositories.NewGORMProductRepository(db), db, nil
}

func run(cfg config.Config) error {
	productRepo, db, err := OpenRepository(cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}()
	}

	// Events stay off unless a broker URL is configured.
	var publisher services.Publisher
	if cfg.Events.Enabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.Events.URL})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if cfg.Events.Consume {
			if err := mqClient.ConsumeProductEvents(services.HandleProductEvent); err != nil {
				return fmt.Errorf("failed to start product events consumer: %w", err)
			}
		}
	}

	productService := services.NewProductService(productRepo, publisher)
	app := server.NewApp(server.Options{
		ProductHandler: handlers.NewProductHandler(productService),
		DB:             db,
		EventsEnabled:  cfg.Events.Enabled(),
	})

	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}
