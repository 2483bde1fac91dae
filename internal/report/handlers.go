package report

import (
	"context"

	"welly-web/internal/admin"
	"welly-web/internal/revalidate"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/admin/reports"

type statusSubmitter struct{ svc *Service }

func (s statusSubmitter) Submit(ctx context.Context, f admin.Form) (string, error) {
	in, err := ParseStatus(f)
	if err != nil {
		return "", err
	}
	return listPath, s.svc.UpdateStatus(ctx, f.Value("id"), in)
}

type deleteSubmitter struct{ svc *Service }

func (s deleteSubmitter) Submit(ctx context.Context, f admin.Form) (string, error) {
	return listPath, s.svc.Delete(ctx, f.Value("id"))
}

type resolveSubmitter struct {
	svc    *Service
	notify revalidate.Notifier
}

func (s resolveSubmitter) Submit(ctx context.Context, f admin.Form) (string, error) {
	r, err := s.svc.Resolve(ctx, f.Value("id"))
	if err != nil {
		return "", err
	}
	if r.ContentType == "post" && r.ContentID != nil {
		s.notify.Notify(ctx, revalidate.Event{Kind: "post", ID: *r.ContentID})
	}
	return listPath, nil
}

func RegisterAdminRoutes(r fiber.Router, svc *Service, notify revalidate.Notifier) {
	r.Get("/", func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		reports := make([]Report, 0, len(rows))
		for _, row := range rows {
			reports = append(reports, FromRow(row))
		}
		q := admin.QueryFromCtx(c)
		reports = admin.Filter(reports, q,
			func(r Report) []string {
				return []string{r.ReporterUsername, r.ReportedUsername, r.Reason, admin.Deref(r.Details)}
			},
			func(r Report) string { return r.Status })
		return admin.RenderTable(c, tablePage(reports, q))
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		row, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return admin.RenderDetail(c, detailPage(FromRow(row)))
	})

	r.Post("/:id/status", admin.Handle(statusSubmitter{svc: svc}))
	r.Post("/:id/resolve", admin.Handle(resolveSubmitter{svc: svc, notify: notify}))
	r.Post("/:id/delete", admin.Handle(deleteSubmitter{svc: svc}))
}

func tablePage(reports []Report, q admin.Query) admin.TablePage {
	page := admin.TablePage{
		Title:      "Reports",
		Section:    "reports",
		Query:      q,
		Categories: admin.Options(Statuses, nil),
		Columns:    []string{"Reporter", "Reported", "Type", "Reason", "Status", "Date"},
	}
	for _, r := range reports {
		page.Rows = append(page.Rows, admin.Row{
			Href:    listPath + "/" + r.ID,
			Cells:   []string{"@" + r.ReporterUsername, "@" + r.ReportedUsername, r.ContentType, r.Reason, r.Status, admin.Date(r.CreatedAt)},
			Actions: actions(r),
		})
	}
	return page
}

func actions(r Report) []admin.Action {
	base := listPath + "/" + r.ID
	var out []admin.Action
	if r.Status == StatusPending {
		out = append(out,
			admin.Action{Label: "Mark reviewed", URL: base + "/status", Hidden: map[string]string{"status": StatusReviewed}},
			admin.Action{Label: "Dismiss", URL: base + "/status", Hidden: map[string]string{"status": StatusDismissed}},
		)
		if (r.ContentType == "post" || r.ContentType == "comment") && r.ContentID != nil {
			out = append(out, admin.Action{
				Label:   "Delete " + r.ContentType,
				URL:     base + "/resolve",
				Confirm: "Delete the reported " + r.ContentType + "?",
				Danger:  true,
			})
		}
	} else {
		out = append(out, admin.Action{Label: "Reopen", URL: base + "/status", Hidden: map[string]string{"status": StatusPending}})
	}
	return append(out, admin.Action{Label: "Delete report", URL: base + "/delete", Confirm: "Delete this report?", Danger: true})
}

func detailPage(r Report) admin.DetailPage {
	resolved := ""
	if r.ResolvedAt != nil {
		resolved = admin.Date(*r.ResolvedAt)
	}
	return admin.DetailPage{
		Title:   "Report",
		Section: "reports",
		Back:    listPath,
		Fields: []admin.DetailField{
			{Label: "Reporter", Value: "@" + r.ReporterUsername},
			{Label: "Reported", Value: "@" + r.ReportedUsername},
			{Label: "Content", Value: r.ContentType + " " + admin.Deref(r.ContentID)},
			{Label: "Reason", Value: r.Reason},
			{Label: "Details", Value: admin.Deref(r.Details)},
			{Label: "Status", Value: r.Status},
			{Label: "Admin notes", Value: admin.Deref(r.AdminNotes)},
			{Label: "Created", Value: admin.Date(r.CreatedAt)},
			{Label: "Resolved", Value: resolved},
		},
		Actions: actions(r),
	}
}
