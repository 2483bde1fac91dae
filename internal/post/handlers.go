package post

import (
	"context"
	"strconv"

	"welly-web/internal/admin"
	"welly-web/internal/revalidate"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/admin/posts"

type deleteSubmitter struct {
	svc    *Service
	notify revalidate.Notifier
}

func (s deleteSubmitter) Submit(ctx context.Context, f admin.Form) (string, error) {
	id := f.Value("id")
	if err := s.svc.Delete(ctx, id); err != nil {
		return "", err
	}
	s.notify.Notify(ctx, revalidate.Event{Kind: kind, ID: id})
	return listPath, nil
}

// RegisterAdminRoutes mounts the read-only post list and detail with delete.
func RegisterAdminRoutes(r fiber.Router, svc *Service, notify revalidate.Notifier) {
	r.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		q := admin.QueryFromCtx(c)
		items = admin.Filter(items, q,
			func(it ListItem) []string {
				return []string{it.Content, admin.Deref(it.Username), admin.Deref(it.PlaceName)}
			},
			func(it ListItem) string { return it.Type })
		return admin.RenderTable(c, tablePage(items, q))
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		row, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return admin.RenderDetail(c, detailPage(FromRow(row)))
	})

	r.Post("/:id/delete", admin.Handle(deleteSubmitter{svc: svc, notify: notify}))
}

func tablePage(items []ListItem, q admin.Query) admin.TablePage {
	page := admin.TablePage{
		Title:      "Posts",
		Section:    "posts",
		Query:      q,
		Categories: admin.Options(Types, nil),
		Columns:    []string{"Content", "User", "Place", "Type", "Likes"},
	}
	for _, it := range items {
		user := "unknown"
		if it.Username != nil {
			user = "@" + *it.Username
		}
		page.Rows = append(page.Rows, admin.Row{
			Href:  listPath + "/" + it.ID,
			Cells: []string{truncate(it.Content, 80), user, admin.Deref(it.PlaceName), it.Type, strconv.Itoa(it.Likes)},
			Actions: []admin.Action{{
				Label:   "Delete",
				URL:     listPath + "/" + it.ID + "/delete",
				Confirm: "Delete this post and its media?",
				Danger:  true,
			}},
		})
	}
	return page
}

func detailPage(p Post) admin.DetailPage {
	page := admin.DetailPage{
		Title:   "Post",
		Section: "posts",
		Back:    listPath,
		Image:   p.Image(),
		Fields: []admin.DetailField{
			{Label: "Content", Value: p.Content},
			{Label: "Type", Value: p.Type},
			{Label: "Likes", Value: strconv.Itoa(p.Likes)},
			{Label: "Media", Value: strconv.Itoa(len(p.Media))},
			{Label: "Created", Value: admin.Date(p.CreatedAt)},
			{Label: "Author", Value: p.UserID},
			{Label: "Place", Value: p.PlaceID},
			{Label: "Share page", Value: "/post/" + p.ID},
		},
		Actions: []admin.Action{{
			Label:   "Delete post",
			URL:     listPath + "/" + p.ID + "/delete",
			Confirm: "Delete this post and its media?",
			Danger:  true,
		}},
	}
	return page
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
