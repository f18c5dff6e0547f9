package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Pinger - зависимость, без которой сервис не готов принимать запросы.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Probes struct {
	deps    map[string]Pinger
	timeout time.Duration
}

func NewProbes(deps map[string]Pinger) *Probes {
	return &Probes{deps: deps, timeout: 2 * time.Second}
}

// Register вешает пробы на /health/live, /health/ready и /health/startup.
func (p *Probes) Register(app *fiber.App) {
	app.Get("/health/live", p.Liveness)
	app.Get("/health/ready", p.Readiness)
	app.Get("/health/startup", p.Startup)
}

// Liveness проверяет, что приложение работает
func (p *Probes) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// Readiness проверяет все зависимости.
func (p *Probes) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), p.timeout)
	defer cancel()

	for name, dep := range p.deps {
		if err := dep.Ping(ctx); err != nil {
			log.Printf("[HEALTH] %s is not ready: %v", name, err)
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"error":  name,
			})
		}
	}
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}

// Startup проверяет, что приложение успешно запустилось
func (p *Probes) Startup(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
