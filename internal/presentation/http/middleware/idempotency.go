package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/daybook-api/internal/config"
	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/internal/presentation/http/handler"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
	// ReplayedHeader marks a response served from a stored key
	ReplayedHeader = "X-Idempotency-Replayed"
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger logrus.FieldLogger
	Now    func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST repeats an
// Idempotency-Key the same user already used. Only successful responses are
// stored, so a rejected create can be retried with the same key.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID := handler.GetUserID(c)
		if userID == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		existing, err := cfg.Repo.GetByKey(ctx, key, *userID)
		if err != nil {
			config.LogError(cfg.Logger, "Idempotency", "GetByKey", "Failed to look up idempotency key", key, err)
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired(now()) {
			c.Header(ReplayedHeader, "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		if existing != nil {
			if err := cfg.Repo.DeleteExpired(ctx, now()); err != nil {
				config.LogError(cfg.Logger, "Idempotency", "DeleteExpired", "Failed to purge expired idempotency keys", key, err)
			}
		}

		record := &entity.IdempotencyKey{
			Key:          key,
			UserID:       *userID,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			CreatedAt:    now(),
			ExpiresAt:    now().Add(IdempotencyKeyTTL),
		}
		if err := cfg.Repo.Create(ctx, record); err != nil {
			config.LogError(cfg.Logger, "Idempotency", "Create", "Failed to store idempotency key", key, err)
		}
	}
}
