package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/admin"

// Option is one choice of a select field or list filter.
type Option struct {
	Value string
	Label string
}

// Field is one input of an admin form.
type Field struct {
	Name        string
	Label       string
	Type        string // text, textarea, number, select, url, date, time, hidden
	Value       string
	Required    bool
	Options     []Option
	Placeholder string
	Help        string
	Step        string
}

// Action is a POST button with hidden inputs.
type Action struct {
	Label   string
	URL     string
	Confirm string
	Hidden  map[string]string
	Danger  bool
}

type Row struct {
	Href    string
	Cells   []string
	Actions []Action
}

type TablePage struct {
	Title      string
	Section    string
	NewHref    string
	Query      Query
	Categories []Option
	Columns    []string
	Rows       []Row
	Total      int
}

type FormPage struct {
	Title   string
	Section string
	Action  string
	Cancel  string
	Fields  []Field
	Delete  *Action
}

type DetailField struct {
	Label string
	Value string
}

type DetailPage struct {
	Title   string
	Section string
	Back    string
	Image   string
	Fields  []DetailField
	Actions []Action
	Related *TablePage
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label string
	Href  string
	Key   string
}

var Nav = []NavItem{
	{Label: "Dashboard", Href: "/admin", Key: "dashboard"},
	{Label: "Trails", Href: "/admin/trails", Key: "trails"},
	{Label: "Places", Href: "/admin/places", Key: "places"},
	{Label: "Events", Href: "/admin/events", Key: "events"},
	{Label: "Guides", Href: "/admin/guides", Key: "guides"},
	{Label: "Posts", Href: "/admin/posts", Key: "posts"},
	{Label: "Users", Href: "/admin/users", Key: "users"},
	{Label: "Reports", Href: "/admin/reports", Key: "reports"},
}

func bind(section string, page any) fiber.Map {
	return fiber.Map{"Page": page, "Nav": Nav, "Section": section}
}

func RenderTable(c *fiber.Ctx, p TablePage) error {
	if p.Total == 0 {
		p.Total = len(p.Rows)
	}
	return c.Render("admin/table", bind(p.Section, p), layout)
}

func RenderForm(c *fiber.Ctx, p FormPage) error {
	return c.Render("admin/form", bind(p.Section, p), layout)
}

func RenderDetail(c *fiber.Ctx, p DetailPage) error {
	return c.Render("admin/detail", bind(p.Section, p), layout)
}

// Options builds select options from value/label pairs in order.
func Options(values []string, labels map[string]string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		label := labels[v]
		if label == "" {
			label = v
		}
		out = append(out, Option{Value: v, Label: label})
	}
	return out
}

// Date formats t the way the dashboard shows dates.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}

// Deref returns *s or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
