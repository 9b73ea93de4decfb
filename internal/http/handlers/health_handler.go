package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/http/middleware"
	"github.com/arielbeck/go-halakha-backend/internal/provider"
)

// HealthHandler probes the process's dependencies. A failing dependency
// degrades the report but never the status code: health always answers 200
// so orchestrators keep routing while operators see what is down.
type HealthHandler struct {
	Provider *provider.Provider
	// ProbeTimeout bounds each dependency probe.
	ProbeTimeout time.Duration
}

type healthReport struct {
	Status   string            `json:"status"` // "ok" or "degraded"
	Services map[string]string `json:"services"`
}

// Health godoc
//
//	@Summary	Liveness and dependency health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	healthReport
//	@Router		/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.ProbeTimeout)
	defer cancel()

	probes := map[string]func(context.Context) error{
		"database":   h.probeDB,
		"ai":         h.probeAI,
		"publishing": h.probePublisher,
	}

	var (
		mu   sync.Mutex
		deps = make(map[string]string, len(probes))
		wg   sync.WaitGroup
	)
	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe func(context.Context) error) {
			defer wg.Done()
			state := "ok"
			if err := probe(ctx); err != nil {
				state = "unavailable"
				middleware.LoggerFrom(c).Warn().Err(err).Str("dependency", name).Msg("health probe failed")
			}
			mu.Lock()
			deps[name] = state
			mu.Unlock()
		}(name, probe)
	}
	wg.Wait()

	status := "ok"
	for _, state := range deps {
		if state != "ok" {
			status = "degraded"
			break
		}
	}
	ok(c, healthReport{Status: status, Services: deps})
}

func (h *HealthHandler) probeDB(ctx context.Context) error {
	db, err := h.Provider.DB()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *HealthHandler) probeAI(ctx context.Context) error {
	gen, err := h.Provider.Generator(ctx)
	if err != nil {
		return err
	}
	return gen.Ping(ctx)
}

func (h *HealthHandler) probePublisher(ctx context.Context) error {
	pub, err := h.Provider.Publisher()
	if err != nil {
		return err
	}
	return pub.Ping(ctx)
}
