package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/udeservering-api/docs"
	"github.com/jhoicas/udeservering-api/internal/application/invoicing"
	"github.com/jhoicas/udeservering-api/internal/application/jobs"
	"github.com/jhoicas/udeservering-api/internal/application/permits"
	"github.com/jhoicas/udeservering-api/internal/application/pricing"
	"github.com/jhoicas/udeservering-api/internal/application/rates"
	"github.com/jhoicas/udeservering-api/internal/application/statistics"
	"github.com/jhoicas/udeservering-api/internal/domain/eligibility"
	"github.com/jhoicas/udeservering-api/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/udeservering-api/internal/infrastructure/pdf"
	"github.com/jhoicas/udeservering-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/udeservering-api/internal/interfaces/http"
	"github.com/jhoicas/udeservering-api/pkg/config"
	"github.com/jhoicas/udeservering-api/pkg/logger"
)

// @title                       Udeservering API
// @version                     1.0
// @description                 Facturación de permisos de terrazas (udeservering): precios, líneas de factura y datos de referencia.
// @BasePath                    /udeservering/api
// @schemes                     http https
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("target", postgres.Target(cfg.DB)).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	rateRepo := postgres.NewRateRepository(pool)
	lineRepo := postgres.NewInvoiceLineRepository(pool)
	permitRepo := postgres.NewPermitRepository(pool)
	statsRepo := postgres.NewStatisticsRepository(pool)

	// Tarifas: caché por año; toda escritura pasa por ReferenceService, que la invalida
	rateCache, err := rates.NewRateCache(rateRepo, cfg.Rates.CacheSize, log.Component("rate_cache"))
	if err != nil {
		log.Fatal().Err(err).Msg("caché de tarifas")
	}
	referenceSvc := rates.NewReferenceService(txRunner, rateCache, log.Component("reference"))
	pricingSvc := pricing.NewService(rateCache, log.Component("pricing"))

	strategy, err := eligibility.ByName(cfg.Eligibility.Strategy)
	if err != nil {
		log.Fatal().Err(err).Msg("ELIGIBILITY_STRATEGY")
	}
	permitUC := permits.NewUseCase(permitRepo, strategy)

	// Eventos: AMQP si hay broker; si no, solo se registran
	publisher := messaging.Connect(cfg.AMQP.URL, cfg.AMQP.Exchange, log.Component("messaging"))
	defer publisher.Close()
	lineEvents := messaging.NewLineEvents(publisher)

	workflow := invoicing.NewWorkflow(txRunner, lineRepo, pricingSvc, lineEvents, log.Component("invoicing"))
	report := invoicing.NewReport(lineRepo, infrapdf.NewBillingBasisGenerator())
	statsUC := statistics.NewUseCase(statsRepo)

	scheduler := jobs.NewScheduler(jobs.NewJobs(rateCache, referenceSvc, log.Component("jobs")), log.Component("scheduler"))
	if _, err := scheduler.Register(jobs.Schedules{
		WarmRates: cfg.Rates.WarmupSchedule,
		CloneYear: cfg.Rates.CloneYearSchedule,
	}); err != nil {
		log.Fatal().Err(err).Msg("tareas programadas")
	}
	scheduler.Start()

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:       cfg.App.Name,
		SwaggerDoc: []byte(docs.SwaggerInfo.ReadDoc()),
	})
	httpRouter.Router(app, httpRouter.RouterDeps{
		Pricing:    pricingSvc,
		Permits:    permitUC,
		Workflow:   workflow,
		Report:     report,
		Reference:  referenceSvc,
		RateCache:  rateCache,
		Statistics: statsUC,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		Log:        log.Component("http"),
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
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("tareas programadas no terminaron a tiempo")
	}

	log.Info().Msg("aplicación detenida")
}
