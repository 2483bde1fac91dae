package preview

import (
	"context"
	"time"

	"welly-web/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheTTL     = 24 * time.Hour
	cacheControl = "public, immutable, no-transform, max-age=31536000"
)

var renderFn = Render

// Service renders previews and keeps the encoded PNG in redis, keyed by the
// hash of the normalized inputs. A nil redis client disables caching.
type Service struct {
	redis *redis.Client
	log   *zap.Logger
}

func NewService(redisClient *redis.Client, log *zap.Logger) *Service {
	return &Service{redis: redisClient, log: logging.OrNop(log)}
}

func cacheKey(p Params) string {
	return "og:" + p.Key()
}

// Image returns the PNG for p, from cache when possible.
func (s *Service) Image(ctx context.Context, p Params) ([]byte, error) {
	key := cacheKey(p)
	if s.redis != nil {
		if b, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			return b, nil
		}
	}

	img, err := renderFn(p)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, img, cacheTTL).Err(); err != nil {
			s.log.Warn("preview cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return img, nil
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/og", func(c *fiber.Ctx) error {
		img, err := svc.Image(c.UserContext(), Params{
			Title:    c.Query("title"),
			Subtitle: c.Query("subtitle"),
			Kind:     c.Query("type"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderCacheControl, cacheControl)
		return c.Send(img)
	})
}
