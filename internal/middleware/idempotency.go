package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	idempotencyLockTTL   = 30 * time.Second
	idempotencyReplayTTL = 24 * time.Hour
)

var errIdempotencyInFlight = apperror.New(
	apperror.CodeConflict,
	"A request with this Idempotency-Key is still being processed",
	http.StatusConflict,
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func IdempotencyCacheKey(path, employeeID, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", path, employeeID, key)
}

// Idempotency replays the stored response for a repeated POST carrying the
// same Idempotency-Key from the same employee. Only 2xx responses are kept.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("middleware.idempotency")
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := IdempotencyCacheKey(c.FullPath(), c.GetString("employee_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("Idempotent-Replayed", "true")
				c.Data(cached.Status, gin.MIMEJSON+"; charset=utf-8", []byte(cached.Body))
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.AbortWithError(c, errIdempotencyInFlight)
			return
		}
		defer rdb.Del(ctx, lockKey)

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status < 200 || status >= 300 {
			return
		}

		payload, err := json.Marshal(cachedResponse{Status: status, Body: recorder.body.String()})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, cacheKey, payload, idempotencyReplayTTL).Err(); err != nil {
			logger.Warn("idempotency store failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}
