package share

import (
	"fmt"
	"net/url"
	"strings"

	"welly-web/internal/deeplink"
	"welly-web/internal/place"
)

const (
	descriptionRunes = 150
	postTitleRunes   = 100
	ogTitleRunes     = 120
)

// Site is the public origin and store identity used in page metadata.
type Site struct {
	URL        string
	AppStoreID string
}

// Metadata is the head of a share page: document title plus Open Graph,
// Twitter card and iOS smart banner values.
type Metadata struct {
	Title          string
	Description    string
	Image          string
	ImageWidth     int
	ImageHeight    int
	URL            string
	OGType         string
	TwitterCard    string
	AppleItunesApp string
}

// Build returns the metadata for a resolved page.
func Build(p Page, site Site) Metadata {
	switch p.Kind {
	case deeplink.KindPost:
		return BuildPostMetadata(p, site)
	case deeplink.KindPlace:
		return BuildPlaceMetadata(p, site)
	case deeplink.KindEvent:
		return BuildEventMetadata(p, site)
	case deeplink.KindTrail:
		return BuildTrailMetadata(p, site)
	case deeplink.KindGuide:
		return BuildGuideMetadata(p, site)
	case deeplink.KindUser:
		return BuildUserMetadata(p, site)
	}
	return NotFound(p.Kind)
}

// NotFound is the metadata of a missing entity: a title and nothing else.
func NotFound(kind deeplink.Kind) Metadata {
	name := string(kind)
	if name == "" {
		return Metadata{Title: "Page not found"}
	}
	return Metadata{Title: strings.ToUpper(name[:1]) + name[1:] + " not found"}
}

func base(kind deeplink.Kind, id, title, description string, site Site) Metadata {
	return Metadata{
		Title:          title,
		Description:    description,
		ImageWidth:     1200,
		ImageHeight:    630,
		URL:            site.URL + "/" + string(kind) + "/" + id,
		OGType:         "article",
		TwitterCard:    "summary_large_image",
		AppleItunesApp: fmt.Sprintf("app-id=%s, app-argument=%s/%s/%s", site.AppStoreID, site.URL, kind, id),
	}
}

// ogImage is the generated preview URL. An empty kind is left off the query.
func ogImage(site Site, title, subtitle string, kind deeplink.Kind) string {
	q := url.Values{}
	q.Set("title", title)
	q.Set("subtitle", subtitle)
	if kind != "" {
		q.Set("type", string(kind))
	}
	return site.URL + "/api/og?" + q.Encode()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func BuildPostMetadata(p Page, site Site) Metadata {
	if p.Post == nil {
		return NotFound(deeplink.KindPost)
	}
	content := p.Post.Content
	if len([]rune(content)) > postTitleRunes {
		content = truncate(content, postTitleRunes) + "..."
	}
	author := "Someone"
	if p.Author != nil {
		author = p.Author.DisplayName
	}
	description := "A recommendation on Welly"
	if p.Place != nil {
		description = fmt.Sprintf("Recommendation at %s, %s", p.Place.Name, p.Place.Address)
	}

	m := base(deeplink.KindPost, p.ID, `"`+content+`" - `+author+" on Welly", description, site)
	m.Image = p.Post.Image()
	if m.Image == "" {
		var parts []string
		if p.Author != nil && p.Author.DisplayName != "" {
			parts = append(parts, p.Author.DisplayName)
		}
		if p.Place != nil && p.Place.Name != "" {
			parts = append(parts, p.Place.Name)
		}
		m.Image = ogImage(site, truncate(p.Post.Content, ogTitleRunes), strings.Join(parts, " at "), "")
	}
	return m
}

func BuildPlaceMetadata(p Page, site Site) Metadata {
	if p.Place == nil {
		return NotFound(deeplink.KindPlace)
	}
	label := place.CategoryLabel(p.Place.Category)
	m := base(deeplink.KindPlace, p.ID, p.Place.Name+" - Welly",
		fmt.Sprintf("%s in Wellington - %s", label, plural(len(p.Posts), "recommendation")), site)
	m.OGType = "website"
	if len(p.Posts) > 0 {
		m.Image = p.Posts[0].HeroImage()
	}
	if m.Image == "" {
		m.Image = ogImage(site, p.Place.Name, label+" - "+p.Place.Address, deeplink.KindPlace)
	}
	return m
}

func BuildEventMetadata(p Page, site Site) Metadata {
	if p.Event == nil {
		return NotFound(deeplink.KindEvent)
	}
	e := p.Event
	date := e.FormattedDate()
	description := fmt.Sprintf("%s - %s", date, truncate(e.Description, descriptionRunes))
	subtitle := date
	if p.Place != nil {
		description = fmt.Sprintf("%s at %s - %s", date, p.Place.Name, truncate(e.Description, descriptionRunes))
		subtitle = date + " at " + p.Place.Name
	}
	m := base(deeplink.KindEvent, p.ID, e.Title+" - Welly", description, site)
	if e.ImageURL != nil && *e.ImageURL != "" {
		m.Image = *e.ImageURL
	} else {
		m.Image = ogImage(site, e.Title, subtitle, deeplink.KindEvent)
	}
	return m
}

// BuildTrailMetadata always uses the generated preview; trails have no photo.
func BuildTrailMetadata(p Page, site Site) Metadata {
	if p.Trail == nil {
		return NotFound(deeplink.KindTrail)
	}
	t := p.Trail
	m := base(deeplink.KindTrail, p.ID, t.Name+" - Welly",
		fmt.Sprintf("%s · %s elevation · %s — %s", t.Distance, t.Elevation, t.Difficulty, truncate(t.Description, descriptionRunes)), site)
	m.Image = ogImage(site, t.Name, fmt.Sprintf("%s · %s elevation", t.Distance, t.Elevation), deeplink.KindTrail)
	return m
}

func BuildGuideMetadata(p Page, site Site) Metadata {
	if p.Guide == nil {
		return NotFound(deeplink.KindGuide)
	}
	g := p.Guide
	by, subtitleBy := "someone", "a local"
	if p.Author != nil {
		by, subtitleBy = p.Author.DisplayName, p.Author.DisplayName
	}
	description := "A local guide by " + by + " on Welly"
	if g.Description != nil && *g.Description != "" {
		description = truncate(*g.Description, descriptionRunes)
	}
	m := base(deeplink.KindGuide, p.ID, g.Title+" - Welly", description, site)
	if g.CoverImageURL != nil && *g.CoverImageURL != "" {
		m.Image = *g.CoverImageURL
	} else {
		m.Image = ogImage(site, g.Title, "Guide by "+subtitleBy, deeplink.KindGuide)
	}
	return m
}

func BuildUserMetadata(p Page, site Site) Metadata {
	if p.User == nil {
		return NotFound(deeplink.KindUser)
	}
	u := p.User
	recs := plural(len(p.Posts), "recommendation")
	description := recs + " - " + plural(p.Followers, "follower")
	if u.Bio != nil && *u.Bio != "" {
		description = truncate(*u.Bio, descriptionRunes) + " - " + recs
	}
	m := base(deeplink.KindUser, p.ID, fmt.Sprintf("%s (@%s) - Welly", u.DisplayName, u.Username), description, site)
	m.OGType = "profile"
	m.TwitterCard = "summary"
	m.ImageWidth, m.ImageHeight = 400, 400
	if u.AvatarURL != "" {
		m.Image = u.AvatarURL
	} else {
		m.Image = ogImage(site, u.DisplayName, "@"+u.Username, deeplink.KindUser)
	}
	return m
}
