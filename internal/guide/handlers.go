package guide

import (
	"context"
	"strconv"

	"welly-web/internal/admin"
	"welly-web/internal/revalidate"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/admin/guides"

type updateSubmitter struct {
	svc    *Service
	notify revalidate.Notifier
}

func (s updateSubmitter) Submit(ctx context.Context, f admin.Form) (string, error) {
	id := f.Value("id")
	in, err := ParseInput(f)
	if err != nil {
		return "", err
	}
	if err := s.svc.Update(ctx, id, in); err != nil {
		return "", err
	}
	s.notify.Notify(ctx, revalidate.Event{Kind: kind, ID: id})
	return listPath, nil
}

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

// RegisterAdminRoutes mounts guide moderation: list, edit and delete.
func RegisterAdminRoutes(r fiber.Router, svc *Service, notify revalidate.Notifier) {
	r.Get("/", func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		q := admin.QueryFromCtx(c)
		rows = admin.Filter(rows, q,
			func(r Row) []string { return []string{r.Title, admin.Deref(r.Description)} },
			nil)
		return admin.RenderTable(c, tablePage(rows, q))
	})

	r.Get("/:id/edit", func(c *fiber.Ctx) error {
		row, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return admin.RenderForm(c, formPage(row))
	})

	r.Post("/:id", admin.Handle(updateSubmitter{svc: svc, notify: notify}))
	r.Post("/:id/delete", admin.Handle(deleteSubmitter{svc: svc, notify: notify}))
}

func tablePage(rows []Row, q admin.Query) admin.TablePage {
	page := admin.TablePage{
		Title:   "Guides",
		Section: "guides",
		Query:   q,
		Columns: []string{"Title", "Likes", "Created"},
	}
	for _, r := range rows {
		page.Rows = append(page.Rows, admin.Row{
			Href:  listPath + "/" + r.ID + "/edit",
			Cells: []string{r.Title, strconv.Itoa(r.Likes), admin.Date(r.CreatedAt)},
			Actions: []admin.Action{{
				Label:   "Delete",
				URL:     listPath + "/" + r.ID + "/delete",
				Confirm: "Delete " + r.Title + "?",
				Danger:  true,
			}},
		})
	}
	return page
}

func formPage(r Row) admin.FormPage {
	return admin.FormPage{
		Title:   "Edit Guide",
		Section: "guides",
		Action:  listPath + "/" + r.ID,
		Cancel:  listPath,
		Delete:  &admin.Action{Label: "Delete", URL: listPath + "/" + r.ID + "/delete", Confirm: "Delete " + r.Title + "?", Danger: true},
		Fields: []admin.Field{
			{Name: "title", Label: "Title", Type: "text", Value: r.Title, Required: true},
			{Name: "description", Label: "Description", Type: "textarea", Value: admin.Deref(r.Description)},
			{Name: "cover_image_url", Label: "Cover image URL", Type: "url", Value: admin.Deref(r.CoverImageURL)},
		},
	}
}
