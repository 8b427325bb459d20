package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Schedules expresiones cron de 5 campos; vacío = tarea deshabilitada.
type Schedules struct {
	WarmRates string
	CloneYear string
}

// Scheduler gestiona las tareas cron.
type Scheduler struct {
	cron *cron.Cron
	jobs *Jobs
	log  zerolog.Logger
}

// NewScheduler crea el scheduler; los pánicos de una tarea se recuperan y registran.
func NewScheduler(jobs *Jobs, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{log: log})), cron.WithLogger(cronLogger{log: log}))
	return &Scheduler{cron: c, jobs: jobs, log: log}
}

// Register añade las tareas con horario no vacío. Devuelve cuántas registró.
func (s *Scheduler) Register(sch Schedules) (int, error) {
	n := 0
	add := func(name, expr string, fn func()) error {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			s.log.Info().Str("job", name).Msg("tarea deshabilitada")
			return nil
		}
		if _, err := s.cron.AddFunc(expr, fn); err != nil {
			return fmt.Errorf("programar %s (%q): %w", name, expr, err)
		}
		s.log.Info().Str("job", name).Str("schedule", expr).Msg("tarea programada")
		n++
		return nil
	}
	if err := add("warm_rates", sch.WarmRates, s.jobs.WarmRates); err != nil {
		return n, err
	}
	if err := add("clone_year", sch.CloneYear, func() { s.jobs.CloneNextYear() }); err != nil {
		return n, err
	}
	return n, nil
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el scheduler; el contexto se cierra cuando terminan las tareas en curso.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
