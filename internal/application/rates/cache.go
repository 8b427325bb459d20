// Package rates contiene la caché de datos de referencia por año y el único
// punto de escritura de parámetros, tarifas y temporadas.
package rates

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/udeservering-api/internal/domain/pricing"
	"github.com/jhoicas/udeservering-api/internal/domain/repository"
)

// DefaultCacheSize años distintos que se mantienen en memoria.
const DefaultCacheSize = 100

// CacheStats contadores de uso de la caché.
type CacheStats struct {
	Years  int    `json:"years"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// RateCache memoriza el RateSet de cada año (LRU acotado, sin expiración).
//
// Las cargas concurrentes del mismo año se agrupan con singleflight. Cada
// invalidación incrementa gen; una carga iniciada antes de la invalidación
// devuelve su resultado al llamador pero no se guarda.
type RateCache struct {
	repo   repository.RateRepository
	lru    *lru.Cache
	group  singleflight.Group
	mu     sync.Mutex
	gen    uint64
	hits   atomic.Uint64
	misses atomic.Uint64
	log    zerolog.Logger
}

// NewRateCache construye la caché; size <= 0 usa DefaultCacheSize.
func NewRateCache(repo repository.RateRepository, size int, log zerolog.Logger) (*RateCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("crear LRU de tarifas: %w", err)
	}
	return &RateCache{repo: repo, lru: l, log: log}, nil
}

// Get devuelve el RateSet del año, cargándolo del almacén si no está en caché.
// Los errores del almacén se propagan sin cachear nada.
func (c *RateCache) Get(ctx context.Context, year int) (*pricing.RateSet, error) {
	if v, ok := c.lru.Get(year); ok {
		c.hits.Add(1)
		return v.(*pricing.RateSet), nil
	}
	c.misses.Add(1)

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	// La carga compartida no depende del contexto del primer llamador; cada
	// llamador deja de esperar cuando se cancela el suyo.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprintf("%d/%d", year, gen), func() (interface{}, error) {
		rs, err := c.repo.LoadRates(loadCtx, year)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.lru.Add(year, rs)
		}
		c.mu.Unlock()
		c.log.Debug().Int("year", year).Msg("tarifas cargadas")
		return rs, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("cargar tarifas %d: %w", year, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("cargar tarifas %d: %w", year, res.Err)
		}
		return res.Val.(*pricing.RateSet), nil
	}
}

// Invalidate descarta el año indicado.
func (c *RateCache) Invalidate(year int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Remove(year)
	c.log.Info().Int("year", year).Msg("caché de tarifas invalidada")
}

// InvalidateAll descarta todos los años.
func (c *RateCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Purge()
	c.log.Info().Msg("caché de tarifas vaciada")
}

// Stats devuelve los contadores actuales.
func (c *RateCache) Stats() CacheStats {
	return CacheStats{
		Years:  c.lru.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
