package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/antifraude-api/docs"
	"github.com/jhoicas/antifraude-api/internal/application/admin"
	"github.com/jhoicas/antifraude-api/internal/application/auth"
	"github.com/jhoicas/antifraude-api/internal/application/intake"
	"github.com/jhoicas/antifraude-api/internal/application/ports"
	"github.com/jhoicas/antifraude-api/internal/application/report"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
	"github.com/jhoicas/antifraude-api/internal/infrastructure/classifier"
	"github.com/jhoicas/antifraude-api/internal/infrastructure/memory"
	"github.com/jhoicas/antifraude-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/antifraude-api/internal/interfaces/http"
	"github.com/jhoicas/antifraude-api/pkg/config"
	"github.com/jhoicas/antifraude-api/pkg/logger"
)

// storage repositorios y runners de transacción del driver elegido.
type storage struct {
	users   repository.UserRepository
	records repository.CaseRecordRepository
	reports repository.ReportRepository
	serial  intake.SequenceTxRunner
	admin   admin.AdminTxRunner
	close   func()
}

// @title                       Antifraude API
// @version                     1.0
// @description                 Recepción y clasificación de textos sospechosos con numeración de casos por categoría.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("classifier", cfg.Classifier.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.close()

	catalog := fraud.DefaultCatalog()

	allocator, err := intake.NewSerialAllocator(store.serial, cfg.Serial.MaxValue)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración del consecutivo")
	}

	intakeUC := intake.NewIntakeUseCase(
		remoteClassifier(cfg.Classifier, catalog),
		fraud.NewKeywordClassifier(catalog),
		catalog,
		allocator,
		store.records,
		log.Component("intake"),
		intake.Config{
			RemoteTimeout: cfg.Classifier.Timeout(),
			Retry:         intake.RetryPolicy{MaxAttempts: cfg.Serial.RetryAttempts},
		},
	)
	adminUC := admin.NewAdminUseCase(store.records, store.admin, catalog, log.Component("admin"))
	reportUC := report.NewReportUseCase(store.reports)
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Antifraude API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		IntakeUC:  intakeUC,
		AdminUC:   adminUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.DBDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore(cfg.Serial.LockTimeout())
		tx := memory.NewTxRunner(s)
		return &storage{
			users:   memory.NewUserRepository(s),
			records: memory.NewCaseRecordRepository(s),
			reports: memory.NewReportRepository(s),
			serial:  tx,
			admin:   tx,
			close:   func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
	if err != nil {
		return nil, err
	}
	tx := postgres.NewTxRunner(pool, cfg.Serial.LockTimeout())
	return &storage{
		users:   postgres.NewUserRepository(pool),
		records: postgres.NewCaseRecordRepository(pool),
		reports: postgres.NewReportRepository(pool),
		serial:  tx,
		admin:   tx,
		close:   pool.Close,
	}, nil
}

// remoteClassifier devuelve nil (interfaz nula, no puntero nulo) cuando no hay backend remoto.
func remoteClassifier(cfg config.ClassifierConfig, catalog *fraud.Catalog) ports.RemoteClassifier {
	switch cfg.Backend {
	case config.ClassifierModel:
		return classifier.NewModelClient(cfg.ModelURL, cfg.Timeout())
	case config.ClassifierAnthropic:
		return classifier.NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.AnthropicModel, catalog, cfg.Timeout())
	case config.ClassifierGemini:
		return classifier.NewGeminiClassifier(cfg.GeminiAPIKey, cfg.GeminiModel, catalog, cfg.Timeout())
	default:
		return nil
	}
}
