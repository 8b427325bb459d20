// clone_year copia los datos de referencia (parámetros, tarifas y temporadas)
// del último año al siguiente. Falla si el año siguiente ya tiene datos.
//
// Uso: go run ./cmd/clone_year
// Lee la misma configuración que cmd/api (DATABASE_URL, DB_*).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/udeservering-api/internal/application/rates"
	"github.com/jhoicas/udeservering-api/internal/domain"
	"github.com/jhoicas/udeservering-api/internal/infrastructure/postgres"
	"github.com/jhoicas/udeservering-api/pkg/config"
	"github.com/jhoicas/udeservering-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "clone_year"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := rates.NewRateCache(postgres.NewRateRepository(pool), 1, log.Component("rate_cache"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Caché de tarifas: %v\n", err)
		os.Exit(1)
	}
	svc := rates.NewReferenceService(postgres.NewTxRunner(pool), cache, log.Component("reference"))

	year, err := svc.CloneYear(ctx)
	switch {
	case errors.Is(err, domain.ErrConflict):
		fmt.Fprintf(os.Stderr, "El año siguiente ya existe: %v\n", err)
		os.Exit(2)
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintln(os.Stderr, "No hay datos de referencia que clonar")
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Clonar año: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Datos de referencia clonados a %d\n", year)
}
