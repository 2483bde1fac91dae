package admin

import (
	"context"

	"welly-web/internal/db"
	"welly-web/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

type Stats struct {
	Trails         int
	Places         int
	Events         int
	Posts          int
	Users          int
	Guides         int
	PendingReports int
}

type Card struct {
	Label string
	Count int
	Href  string
}

func (s Stats) Cards() []Card {
	return []Card{
		{Label: "Trails", Count: s.Trails, Href: "/admin/trails"},
		{Label: "Places", Count: s.Places, Href: "/admin/places"},
		{Label: "Events", Count: s.Events, Href: "/admin/events"},
		{Label: "Posts", Count: s.Posts, Href: "/admin/posts"},
		{Label: "Users", Count: s.Users, Href: "/admin/users"},
		{Label: "Guides", Count: s.Guides, Href: "/admin/guides"},
		{Label: "Pending Reports", Count: s.PendingReports, Href: "/admin/reports?category=pending"},
	}
}

type StatsService struct {
	db db.Querier
}

func NewStatsService(db db.Querier) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM trails),
			(SELECT count(*) FROM places),
			(SELECT count(*) FROM events),
			(SELECT count(*) FROM posts),
			(SELECT count(*) FROM profiles),
			(SELECT count(*) FROM guides),
			(SELECT count(*) FROM reports WHERE status = 'pending')
	`).Scan(&st.Trails, &st.Places, &st.Events, &st.Posts, &st.Users, &st.Guides, &st.PendingReports)
	if err != nil {
		return Stats{}, apperr.Backend("count rows", err)
	}
	return st, nil
}

func RegisterDashboard(r fiber.Router, svc *StatsService) {
	r.Get("/", func(c *fiber.Ctx) error {
		st, err := svc.Stats(c.UserContext())
		if err != nil {
			return err
		}
		return c.Render("admin/dashboard", bind("dashboard", fiber.Map{"Title": "Dashboard", "Cards": st.Cards()}), layout)
	})
}
