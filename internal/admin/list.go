package admin

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Query is the search state of a list view.
type Query struct {
	Search   string
	Category string
}

func QueryFromCtx(c *fiber.Ctx) Query {
	return Query{
		Search:   strings.TrimSpace(c.Query("q")),
		Category: strings.TrimSpace(c.Query("category")),
	}
}

// Filter keeps the items where any text field contains the search string
// (case-insensitive) and, when a category is chosen, whose category matches.
func Filter[T any](items []T, q Query, text func(T) []string, category func(T) string) []T {
	needle := strings.ToLower(q.Search)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q.Category != "" && category != nil && category(it) != q.Category {
			continue
		}
		if needle != "" && !matches(text(it), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
