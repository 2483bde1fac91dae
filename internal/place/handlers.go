package place

import (
	"context"
	"strconv"

	"welly-web/internal/admin"
	"welly-web/internal/revalidate"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/admin/places"

type createSubmitter struct {
	svc    *Service
	notify revalidate.Notifier
}

func (s createSubmitter) Submit(ctx context.Context, f admin.Form) (string, error) {
	in, err := ParseInput(f)
	if err != nil {
		return "", err
	}
	id, err := s.svc.Create(ctx, in)
	if err != nil {
		return "", err
	}
	s.notify.Notify(ctx, revalidate.Event{Kind: kind, ID: id})
	return listPath, nil
}

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

// RegisterAdminRoutes mounts the place dashboard under r.
func RegisterAdminRoutes(r fiber.Router, svc *Service, notify revalidate.Notifier) {
	r.Get("/", func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		q := admin.QueryFromCtx(c)
		rows = admin.Filter(rows, q,
			func(r Row) []string { return []string{r.Name, r.Address} },
			func(r Row) string { return r.Category })
		return admin.RenderTable(c, tablePage(rows, q))
	})

	r.Get("/new", func(c *fiber.Ctx) error {
		return admin.RenderForm(c, formPage(nil))
	})

	r.Get("/:id/edit", func(c *fiber.Ctx) error {
		row, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return admin.RenderForm(c, formPage(&row))
	})

	r.Post("/", admin.Handle(createSubmitter{svc: svc, notify: notify}))
	r.Post("/:id", admin.Handle(updateSubmitter{svc: svc, notify: notify}))
	r.Post("/:id/delete", admin.Handle(deleteSubmitter{svc: svc, notify: notify}))
}

func tablePage(rows []Row, q admin.Query) admin.TablePage {
	page := admin.TablePage{
		Title:      "Places",
		Section:    "places",
		NewHref:    listPath + "/new",
		Query:      q,
		Categories: admin.Options(Categories, CategoryLabels),
		Columns:    []string{"Name", "Category", "Address"},
	}
	for _, r := range rows {
		page.Rows = append(page.Rows, admin.Row{
			Href:  listPath + "/" + r.ID + "/edit",
			Cells: []string{r.Name, CategoryLabel(r.Category), r.Address},
			Actions: []admin.Action{{
				Label:   "Delete",
				URL:     listPath + "/" + r.ID + "/delete",
				Confirm: "Delete " + r.Name + "?",
				Danger:  true,
			}},
		})
	}
	return page
}

func formPage(r *Row) admin.FormPage {
	var cur Row
	page := admin.FormPage{Title: "New Place", Section: "places", Action: listPath, Cancel: listPath}
	if r != nil {
		cur = *r
		page.Title = "Edit Place"
		page.Action = listPath + "/" + r.ID
		page.Delete = &admin.Action{Label: "Delete", URL: listPath + "/" + r.ID + "/delete", Confirm: "Delete " + r.Name + "?", Danger: true}
	}
	category := cur.Category
	if category == "" {
		category = "cafe"
	}
	page.Fields = []admin.Field{
		{Name: "name", Label: "Name", Type: "text", Value: cur.Name, Required: true},
		{Name: "category", Label: "Category", Type: "select", Value: category, Required: true, Options: admin.Options(Categories, CategoryLabels)},
		{Name: "address", Label: "Address", Type: "text", Value: cur.Address, Required: true},
		{Name: "latitude", Label: "Latitude", Type: "number", Step: "any", Value: coord(r, cur.Latitude), Required: true},
		{Name: "longitude", Label: "Longitude", Type: "number", Step: "any", Value: coord(r, cur.Longitude), Required: true},
		{Name: "google_place_id", Label: "Google Place ID", Type: "text", Value: admin.Deref(cur.GooglePlaceID)},
	}
	return page
}

func coord(r *Row, v float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
