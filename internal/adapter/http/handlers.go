package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db    DBPinger
	redis *redis.Client
}

func NewHandler(db DBPinger, rdb *redis.Client) *Handler { return &Handler{db: db, redis: rdb} }

type HealthStatus struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Ready reports 503 unless both the database and Redis answer a ping.
func (h *Handler) Ready(c echo.Context) error {
	status := HealthStatus{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339Nano),
		Checks: map[string]string{},
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	check := func(name string, ping func() error) {
		if err := ping(); err != nil {
			status.Status = "error"
			status.Checks[name] = "failed: " + err.Error()
			return
		}
		status.Checks[name] = "ok"
	}
	check("database", func() error { return h.db.PingContext(ctx) })
	check("redis", func() error { return h.redis.Ping(ctx).Err() })

	if status.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
