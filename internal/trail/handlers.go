package trail

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"welly-web/internal/admin"
	"welly-web/internal/revalidate"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/admin/trails"

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

func RegisterAdminRoutes(r fiber.Router, svc *Service, notify revalidate.Notifier) {
	r.Get("/", func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		q := admin.QueryFromCtx(c)
		rows = admin.Filter(rows, q,
			func(r Row) []string { return []string{r.Name, r.Description} },
			func(r Row) string { return r.Difficulty })
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
		Title:      "Trails",
		Section:    "trails",
		NewHref:    listPath + "/new",
		Query:      q,
		Categories: admin.Options(Difficulties, DifficultyLabels),
		Columns:    []string{"Name", "Difficulty", "Distance", "Elevation", "Duration"},
	}
	for _, r := range rows {
		t := FromRow(r)
		page.Rows = append(page.Rows, admin.Row{
			Href:  listPath + "/" + r.ID + "/edit",
			Cells: []string{t.Name, t.DifficultyLabel(), t.Distance, t.Elevation, t.Duration},
			Actions: []admin.Action{{
				Label:   "Delete",
				URL:     listPath + "/" + r.ID + "/delete",
				Confirm: "Delete " + t.Name + "? Its map place is removed too when nothing else uses it.",
				Danger:  true,
			}},
		})
	}
	return page
}

func formPage(r *Row) admin.FormPage {
	page := admin.FormPage{Title: "New Trail", Section: "trails", Action: listPath, Cancel: listPath}
	var t Trail
	if r != nil {
		t = FromRow(*r)
		page.Title = "Edit Trail"
		page.Action = listPath + "/" + r.ID
		page.Delete = &admin.Action{Label: "Delete", URL: listPath + "/" + r.ID + "/delete", Confirm: "Delete " + r.Name + "?", Danger: true}
	}
	difficulty := t.Difficulty
	if difficulty == "" {
		difficulty = "moderate"
	}
	var lat, lng, label, coords string
	if t.Trailhead != nil {
		lat = strconv.FormatFloat(t.Trailhead.Latitude, 'f', -1, 64)
		lng = strconv.FormatFloat(t.Trailhead.Longitude, 'f', -1, 64)
		label = t.Trailhead.Label
	}
	if r != nil && len(r.Coordinates) > 0 {
		if b, err := json.Marshal(r.Coordinates); err == nil {
			coords = string(b)
		}
	}
	page.Fields = []admin.Field{
		{Name: "name", Label: "Name", Type: "text", Value: t.Name, Required: true},
		{Name: "description", Label: "Description", Type: "textarea", Value: t.Description, Required: true},
		{Name: "difficulty", Label: "Difficulty", Type: "select", Value: difficulty, Required: true, Options: admin.Options(Difficulties, DifficultyLabels)},
		{Name: "distance", Label: "Distance", Type: "text", Value: t.Distance, Required: true, Placeholder: "5.2 km"},
		{Name: "elevation", Label: "Elevation", Type: "text", Value: t.Elevation, Required: true, Placeholder: "320 m"},
		{Name: "duration", Label: "Duration", Type: "text", Value: t.Duration, Required: true, Placeholder: "2-3 hours"},
		{Name: "highlights", Label: "Highlights", Type: "textarea", Value: strings.Join(t.Highlights, "\n"), Help: "One per line"},
		{Name: "trailhead_lat", Label: "Trailhead latitude", Type: "number", Step: "any", Value: lat},
		{Name: "trailhead_lng", Label: "Trailhead longitude", Type: "number", Step: "any", Value: lng},
		{Name: "trailhead_label", Label: "Trailhead label", Type: "text", Value: label},
		{Name: "coordinates", Label: "Coordinates (JSON)", Type: "textarea", Value: coords, Help: `[{"latitude": -41.28, "longitude": 174.77}, ...]`},
	}
	return page
}
