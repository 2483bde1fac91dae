package profile

import (
	"context"
	"strconv"

	"welly-web/internal/admin"
	"welly-web/internal/post"

	"github.com/gofiber/fiber/v2"
)

const listPath = "/admin/users"

// PostLister loads the recent posts shown on a user's detail page.
type PostLister interface {
	ByUser(ctx context.Context, userID string, limit int) ([]post.Row, error)
}

// RegisterAdminRoutes mounts the read-only user list and detail.
func RegisterAdminRoutes(r fiber.Router, svc *Service, posts PostLister) {
	r.Get("/", func(c *fiber.Ctx) error {
		rows, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		q := admin.QueryFromCtx(c)
		rows = admin.Filter(rows, q,
			func(r Row) []string { return []string{r.Username, r.DisplayName} },
			nil)
		return admin.RenderTable(c, tablePage(rows, q))
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		row, err := svc.Get(ctx, c.Params("id"))
		if err != nil {
			return err
		}
		followers, err := svc.FollowerCount(ctx, row.ID)
		if err != nil {
			return err
		}
		recent, err := posts.ByUser(ctx, row.ID, post.ShareLimit)
		if err != nil {
			return err
		}
		return admin.RenderDetail(c, detailPage(row, followers, recent))
	})
}

func tablePage(rows []Row, q admin.Query) admin.TablePage {
	page := admin.TablePage{
		Title:   "Users",
		Section: "users",
		Query:   q,
		Columns: []string{"Username", "Name", "Visibility", "Admin", "Joined"},
	}
	for _, r := range rows {
		u := FromRow(r)
		isAdmin := ""
		if u.IsAdmin {
			isAdmin = "yes"
		}
		page.Rows = append(page.Rows, admin.Row{
			Href:  listPath + "/" + r.ID,
			Cells: []string{"@" + u.Username, u.DisplayName, u.ProfileVisibility, isAdmin, admin.Date(r.CreatedAt)},
		})
	}
	return page
}

func detailPage(r Row, followers int, posts []post.Row) admin.DetailPage {
	u := FromRow(r)
	page := admin.DetailPage{
		Title:   u.DisplayName,
		Section: "users",
		Back:    listPath,
		Image:   u.AvatarURL,
		Fields: []admin.DetailField{
			{Label: "Username", Value: "@" + u.Username},
			{Label: "Bio", Value: admin.Deref(u.Bio)},
			{Label: "Visibility", Value: u.ProfileVisibility},
			{Label: "Followers", Value: strconv.Itoa(followers)},
			{Label: "Joined", Value: admin.Date(r.CreatedAt)},
			{Label: "Share page", Value: "/user/" + u.ID},
		},
		Related: &admin.TablePage{
			Title:   "Recent posts",
			Section: "posts",
			Columns: []string{"Content", "Type", "Likes"},
		},
	}
	for _, p := range posts {
		content := []rune(p.Content)
		if len(content) > 80 {
			content = append(content[:80], '…')
		}
		page.Related.Rows = append(page.Related.Rows, admin.Row{
			Href:  "/admin/posts/" + p.ID,
			Cells: []string{string(content), p.Type, strconv.Itoa(p.Likes)},
		})
	}
	page.Related.Total = len(page.Related.Rows)
	return page
}
