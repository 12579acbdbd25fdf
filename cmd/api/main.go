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

	"github.com/jhoicas/Muestras-api/internal/application/audit"
	"github.com/jhoicas/Muestras-api/internal/application/inventory"
	"github.com/jhoicas/Muestras-api/internal/application/usecase"
	"github.com/jhoicas/Muestras-api/internal/domain/repository"
	"github.com/jhoicas/Muestras-api/internal/infrastructure/memory"
	"github.com/jhoicas/Muestras-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Muestras-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Muestras-api/internal/interfaces/http"
	"github.com/jhoicas/Muestras-api/pkg/config"
	"github.com/jhoicas/Muestras-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y runner del driver elegido.
type storage struct {
	txRunner  inventory.TxRunner
	repos     inventory.Repos
	locations repository.LocationRepository
	auditLogs repository.AuditLogRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	recorder := audit.NewRecorder(st.auditLogs, log.Component("audit"))
	observer := metrics.NewWorkflow("muestras")
	workflow := inventory.NewApprovalWorkflow(st.txRunner, recorder, observer, log.Component("workflow"))
	documents := inventory.NewDocumentService(st.txRunner, st.repos, workflow, recorder)
	trace := inventory.NewTraceUseCase(st.repos, st.locations, documents)
	ledger := inventory.NewLedger(st.repos.Transactions)

	sampleUC := usecase.NewSampleUseCase(st.repos.Samples, st.locations, ledger, recorder)
	locationUC := usecase.NewLocationUseCase(st.locations, recorder)
	auditLogUC := usecase.NewAuditLogUseCase(st.auditLogs)
	statsUC := usecase.NewStatsUseCase(st.repos.Samples, st.repos.Documents, st.locations)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Muestras API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Documents:     documents,
		Trace:         trace,
		SampleUC:      sampleUC,
		LocationUC:    locationUC,
		AuditLogUC:    auditLogUC,
		StatsUC:       statsUC,
		JWTSecret:     cfg.JWT.Secret,
		ApproverRoles: cfg.Workflow.ApproverRoles,
		MasterRoles:   cfg.Workflow.MasterRoles,
		ServiceName:   cfg.App.Name,
		Metrics:       observer.Handler(),
		Log:           log.Component("http"),
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

// openStorage STORE_DRIVER=memory para demo; postgres en cualquier otro caso.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == "memory" {
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:  store,
			repos:     store.Repos(),
			locations: store.Locations(),
			auditLogs: store.AuditLogs(),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.Store.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &storage{
		txRunner:  postgres.NewTxRunner(pool),
		repos:     postgres.NewRepos(pool),
		locations: postgres.NewLocationRepository(pool),
		auditLogs: postgres.NewAuditLogRepository(pool),
		close:     pool.Close,
	}, nil
}
