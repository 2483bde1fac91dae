package event

import (
	"context"
	"strconv"

	"welly-web/internal/admin"
	"welly-web/internal/place"
	"welly-web/internal/revalidate"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/admin/events"

// PlaceLister feeds the venue select of the event form.
type PlaceLister interface {
	List(ctx context.Context) ([]place.Row, error)
}

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

func RegisterAdminRoutes(r fiber.Router, svc *Service, places PlaceLister, notify revalidate.Notifier) {
	r.Get("/", func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		q := admin.QueryFromCtx(c)
		rows = admin.Filter(rows, q,
			func(r Row) []string { return []string{r.Title, r.Description} },
			func(r Row) string { return r.Category })
		return admin.RenderTable(c, tablePage(rows, q))
	})

	r.Get("/new", func(c *fiber.Ctx) error {
		opts, err := placeOptions(c.UserContext(), places)
		if err != nil {
			return err
		}
		return admin.RenderForm(c, formPage(nil, opts))
	})

	r.Get("/:id/edit", func(c *fiber.Ctx) error {
		row, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		opts, err := placeOptions(c.UserContext(), places)
		if err != nil {
			return err
		}
		return admin.RenderForm(c, formPage(&row, opts))
	})

	r.Post("/", admin.Handle(createSubmitter{svc: svc, notify: notify}))
	r.Post("/:id", admin.Handle(updateSubmitter{svc: svc, notify: notify}))
	r.Post("/:id/delete", admin.Handle(deleteSubmitter{svc: svc, notify: notify}))
}

func placeOptions(ctx context.Context, places PlaceLister) ([]admin.Option, error) {
	rows, err := places.List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]admin.Option, 0, len(rows))
	for _, p := range rows {
		opts = append(opts, admin.Option{Value: p.ID, Label: p.Name})
	}
	return opts, nil
}

func tablePage(rows []Row, q admin.Query) admin.TablePage {
	page := admin.TablePage{
		Title:      "Events",
		Section:    "events",
		NewHref:    listPath + "/new",
		Query:      q,
		Categories: admin.Options(Categories, nil),
		Columns:    []string{"Title", "Category", "Date", "Time"},
	}
	for _, r := range rows {
		e := FromRow(r)
		page.Rows = append(page.Rows, admin.Row{
			Href:  listPath + "/" + r.ID + "/edit",
			Cells: []string{e.Title, e.Category, e.Date, e.TimeRange()},
			Actions: []admin.Action{{
				Label:   "Delete",
				URL:     listPath + "/" + r.ID + "/delete",
				Confirm: "Delete " + e.Title + "?",
				Danger:  true,
			}},
		})
	}
	return page
}

func formPage(r *Row, places []admin.Option) admin.FormPage {
	var cur Row
	page := admin.FormPage{Title: "New Event", Section: "events", Action: listPath, Cancel: listPath}
	if r != nil {
		cur = *r
		page.Title = "Edit Event"
		page.Action = listPath + "/" + r.ID
		page.Delete = &admin.Action{Label: "Delete", URL: listPath + "/" + r.ID + "/delete", Confirm: "Delete " + r.Title + "?", Danger: true}
	}
	price := ""
	if cur.Price != nil {
		price = strconv.FormatFloat(*cur.Price, 'f', -1, 64)
	}
	category := cur.Category
	if category == "" {
		category = "music"
	}
	page.Fields = []admin.Field{
		{Name: "title", Label: "Title", Type: "text", Value: cur.Title, Required: true},
		{Name: "description", Label: "Description", Type: "textarea", Value: cur.Description, Required: true},
		{Name: "place_id", Label: "Venue", Type: "select", Value: cur.PlaceID, Required: true, Options: places},
		{Name: "category", Label: "Category", Type: "select", Value: category, Required: true, Options: admin.Options(Categories, nil)},
		{Name: "date", Label: "Date", Type: "date", Value: cur.Date, Required: true},
		{Name: "start_time", Label: "Start time", Type: "time", Value: clock(cur.StartTime), Required: true},
		{Name: "end_time", Label: "End time", Type: "time", Value: clock(admin.Deref(cur.EndTime))},
		{Name: "image_url", Label: "Image URL", Type: "url", Value: admin.Deref(cur.ImageURL)},
		{Name: "ticket_url", Label: "Ticket URL", Type: "url", Value: admin.Deref(cur.TicketURL)},
		{Name: "price", Label: "Price (NZD)", Type: "number", Step: "0.01", Value: price, Help: "Leave empty if unknown, 0 for free"},
	}
	return page
}
