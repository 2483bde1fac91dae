package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"welly-web/internal/admin"
	"welly-web/internal/auth"
	"welly-web/internal/config"
	"welly-web/internal/db"
	"welly-web/internal/event"
	"welly-web/internal/guide"
	"welly-web/internal/handoff"
	"welly-web/internal/logging"
	"welly-web/internal/place"
	"welly-web/internal/post"
	"welly-web/internal/preview"
	"welly-web/internal/profile"
	"welly-web/internal/report"
	"welly-web/internal/revalidate"
	"welly-web/internal/share"
	"welly-web/internal/shared/apperr"
	"welly-web/internal/site"
	"welly-web/internal/trail"
	"welly-web/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    db.Querier
	Redis *redis.Client
	Hub   *revalidate.Hub
	Cache *revalidate.PageCache
	Log   *zap.Logger
}

func NewServer(cfg config.Config, store db.Querier, redisClient *redis.Client, log *zap.Logger) *Server {
	log = logging.OrNop(log)

	app := fiber.New(fiber.Config{
		Views:             web.NewEngine(),
		PassLocalsToViews: true,
		ErrorHandler:      errorHandler(log),
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
		PermissionPolicy:          "camera=(), microphone=(), geolocation=()",
	}))

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    store,
		Redis: redisClient,
		Hub:   revalidate.NewHub(redisClient, log),
		Cache: revalidate.NewPageCache(redisClient),
		Log:   log,
	}
	s.Hub.Handle(func(ctx context.Context, ev revalidate.Event) {
		if err := s.Cache.Evict(ctx, ev); err != nil {
			log.Warn("page cache eviction failed", zap.String("kind", ev.Kind), zap.String("id", ev.ID), zap.Error(err))
		}
	})

	registerRoutes(s)
	return s
}

// Close stops the revalidation subscriber.
func (s *Server) Close() {
	s.Hub.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	places := place.NewService(s.DB)
	posts := post.NewService(s.DB)
	events := event.NewService(s.DB)
	trails := trail.NewService(s.DB, places, s.Log)
	guides := guide.NewService(s.DB)
	profiles := profile.NewService(s.DB)
	reports := report.NewService(s.DB, posts)

	theme := site.NewThemeStore()
	s.App.Use(theme.Middleware())

	siteURL := strings.TrimRight(s.Cfg.SiteURL, "/")
	shareSite := share.Site{URL: siteURL, AppStoreID: s.Cfg.AppStoreID}

	preview.RegisterRoutes(s.App.Group("/api"), preview.NewService(s.Redis, s.Log))

	site.RegisterRoutes(s.App, site.NewHandler(site.Options{
		Site:        shareSite,
		StoreURL:    s.Cfg.AppStoreURL(),
		AppleTeamID: s.Cfg.AppleTeamID,
		BundleID:    s.Cfg.BundleID,
	}, theme))

	resolver := share.NewResolver(share.Sources{
		Posts:    posts,
		Places:   places,
		Events:   events,
		Trails:   trails,
		Guides:   guides,
		Profiles: profiles,
	}, s.Log)
	share.RegisterRoutes(s.App, share.NewHandler(resolver, s.Cache, share.Options{
		Site:   shareSite,
		Widget: handoff.Widget{Timeout: time.Duration(s.Cfg.HandoffTimeoutMS) * time.Millisecond},
		Stores: handoff.Stores{AppStoreURL: s.Cfg.AppStoreURL(), PlayStoreURL: s.Cfg.PlayStoreURL},
	}, s.Log))

	authSvc := auth.NewService(s.Cfg.JWTSecret, s.DB)
	auth.RegisterRoutes(s.App.Group("/admin"), authSvc, strings.HasPrefix(siteURL, "https://"))

	protected := s.App.Group("/admin", auth.RequireAdmin(authSvc))
	admin.RegisterDashboard(protected, admin.NewStatsService(s.DB))
	place.RegisterAdminRoutes(protected.Group("/places"), places, s.Hub)
	trail.RegisterAdminRoutes(protected.Group("/trails"), trails, s.Hub)
	event.RegisterAdminRoutes(protected.Group("/events"), events, places, s.Hub)
	guide.RegisterAdminRoutes(protected.Group("/guides"), guides, s.Hub)
	post.RegisterAdminRoutes(protected.Group("/posts"), posts, s.Hub)
	profile.RegisterAdminRoutes(protected.Group("/users"), profiles, posts)
	report.RegisterAdminRoutes(protected.Group("/reports"), reports, s.Hub)
}

// errorHandler answers admin routes with the JSON error object and public
// routes with an HTML page.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := admin.Status(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		}

		if strings.HasPrefix(c.Path(), "/admin") || strings.HasPrefix(c.Path(), "/api") {
			return c.Status(code).JSON(admin.Body(err))
		}

		view, bind := "error", fiber.Map{"Meta": share.Metadata{Title: "Something went wrong - Welly"}}
		if code == fiber.StatusNotFound || errors.Is(err, apperr.ErrNotFound) {
			view, bind = "not_found", fiber.Map{"Meta": share.NotFound("")}
		}
		if rerr := c.Status(code).Render(view, bind, "layouts/main"); rerr != nil {
			return c.Status(code).SendString(utils.StatusMessage(code))
		}
		return nil
	}
}
