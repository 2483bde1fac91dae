package share

import (
	"context"
	"errors"

	"welly-web/internal/deeplink"
	"welly-web/internal/event"
	"welly-web/internal/guide"
	"welly-web/internal/logging"
	"welly-web/internal/place"
	"welly-web/internal/post"
	"welly-web/internal/profile"
	"welly-web/internal/shared/apperr"
	"welly-web/internal/trail"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type PostReader interface {
	Get(ctx context.Context, id string) (post.Row, error)
	ByPlace(ctx context.Context, placeID string, limit int) ([]post.Row, error)
	ByUser(ctx context.Context, userID string, limit int) ([]post.Row, error)
}

type PlaceReader interface {
	Get(ctx context.Context, id string) (place.Row, error)
}

type EventReader interface {
	Get(ctx context.Context, id string) (event.Row, error)
}

type TrailReader interface {
	Get(ctx context.Context, id string) (trail.Row, error)
}

type GuideReader interface {
	Get(ctx context.Context, id string) (guide.Row, error)
	Places(ctx context.Context, guideID string) ([]guide.PlaceRow, error)
}

type ProfileReader interface {
	Get(ctx context.Context, id string) (profile.Row, error)
	ByIDs(ctx context.Context, ids []string) ([]profile.Row, error)
	FollowerCount(ctx context.Context, id string) (int, error)
}

// Sources are the stores a share page reads from.
type Sources struct {
	Posts    PostReader
	Places   PlaceReader
	Events   EventReader
	Trails   TrailReader
	Guides   GuideReader
	Profiles ProfileReader
}

// Page is everything a share page shows for one entity. Only the fields of
// its Kind are set.
type Page struct {
	Kind deeplink.Kind `json:"kind"`
	ID   string        `json:"id"`

	Post        *post.Post              `json:"post,omitempty"`
	Place       *place.Place            `json:"place,omitempty"`
	Event       *event.Event            `json:"event,omitempty"`
	Trail       *trail.Trail            `json:"trail,omitempty"`
	Guide       *guide.Guide            `json:"guide,omitempty"`
	GuidePlaces []guide.GuidePlace      `json:"guidePlaces,omitempty"`
	User        *profile.User           `json:"user,omitempty"`
	Author      *profile.User           `json:"author,omitempty"`
	Posts       []post.Post             `json:"posts,omitempty"`
	Authors     map[string]profile.User `json:"authors,omitempty"`
	Followers   int                     `json:"followers,omitempty"`
}

// AuthorOf returns the author of a listed post, if known.
func (p Page) AuthorOf(userID string) *profile.User {
	u, ok := p.Authors[userID]
	if !ok {
		return nil
	}
	return &u
}

// Resolver loads an entity and its related rows for a share page.
type Resolver struct {
	src Sources
	log *zap.Logger
}

func NewResolver(src Sources, log *zap.Logger) *Resolver {
	return &Resolver{src: src, log: logging.OrNop(log)}
}

// Resolve fetches the entity named by kind and id. A missing entity returns
// apperr.ErrNotFound. Related rows that fail to load are left out.
func (r *Resolver) Resolve(ctx context.Context, kind deeplink.Kind, id string) (Page, error) {
	page := Page{Kind: kind, ID: id}
	var err error
	switch kind {
	case deeplink.KindPost:
		err = r.post(ctx, &page)
	case deeplink.KindPlace:
		err = r.place(ctx, &page)
	case deeplink.KindEvent:
		err = r.event(ctx, &page)
	case deeplink.KindTrail:
		err = r.trail(ctx, &page)
	case deeplink.KindGuide:
		err = r.guide(ctx, &page)
	case deeplink.KindUser:
		err = r.user(ctx, &page)
	default:
		err = apperr.ErrNotFound
	}
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// related logs a failed secondary lookup. The page renders without it.
func (r *Resolver) related(page *Page, what string, err error) bool {
	if err == nil {
		return true
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		r.log.Warn("related lookup failed",
			zap.String("kind", string(page.Kind)),
			zap.String("id", page.ID),
			zap.String("related", what),
			zap.Error(err))
	}
	return false
}

func (r *Resolver) post(ctx context.Context, page *Page) error {
	row, err := r.src.Posts.Get(ctx, page.ID)
	if err != nil {
		return err
	}
	p := post.FromRow(row)
	page.Post = &p

	var (
		g      errgroup.Group
		author *profile.User
		pl     *place.Place
	)
	g.Go(func() error {
		u, err := r.src.Profiles.Get(ctx, row.UserID)
		if r.related(page, "author", err) {
			v := profile.FromRow(u)
			author = &v
		}
		return nil
	})
	g.Go(func() error {
		p, err := r.src.Places.Get(ctx, row.PlaceID)
		if r.related(page, "place", err) {
			v := place.FromRow(p)
			pl = &v
		}
		return nil
	})
	_ = g.Wait()
	page.Author = author
	page.Place = pl
	return nil
}

func (r *Resolver) place(ctx context.Context, page *Page) error {
	row, err := r.src.Places.Get(ctx, page.ID)
	if err != nil {
		return err
	}
	p := place.FromRow(row)
	page.Place = &p

	posts, err := r.src.Posts.ByPlace(ctx, page.ID, post.ShareLimit)
	if !r.related(page, "posts", err) || len(posts) == 0 {
		return nil
	}

	authors, err := r.src.Profiles.ByIDs(ctx, userIDs(posts))
	if !r.related(page, "authors", err) {
		authors = nil
	}
	page.Authors = publicAuthors(authors)
	for _, pr := range posts {
		if _, ok := page.Authors[pr.UserID]; ok {
			page.Posts = append(page.Posts, post.FromRow(pr))
		}
	}
	return nil
}

func userIDs(posts []post.Row) []string {
	seen := make(map[string]struct{}, len(posts))
	var out []string
	for _, p := range posts {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		out = append(out, p.UserID)
	}
	return out
}

// publicAuthors keeps the authors whose profile is not private. Posts by
// anyone outside the result are hidden.
func publicAuthors(rows []profile.Row) map[string]profile.User {
	out := make(map[string]profile.User, len(rows))
	for _, row := range rows {
		u := profile.FromRow(row)
		if u.Private() {
			continue
		}
		out[u.ID] = u
	}
	return out
}

func (r *Resolver) event(ctx context.Context, page *Page) error {
	row, err := r.src.Events.Get(ctx, page.ID)
	if err != nil {
		return err
	}
	e := event.FromRow(row)
	page.Event = &e

	p, err := r.src.Places.Get(ctx, row.PlaceID)
	if r.related(page, "place", err) {
		v := place.FromRow(p)
		page.Place = &v
	}
	return nil
}

func (r *Resolver) trail(ctx context.Context, page *Page) error {
	row, err := r.src.Trails.Get(ctx, page.ID)
	if err != nil {
		return err
	}
	t := trail.FromRow(row)
	page.Trail = &t

	p, err := r.src.Places.Get(ctx, row.PlaceID)
	if r.related(page, "place", err) {
		v := place.FromRow(p)
		page.Place = &v
	}
	return nil
}

func (r *Resolver) guide(ctx context.Context, page *Page) error {
	row, err := r.src.Guides.Get(ctx, page.ID)
	if err != nil {
		return err
	}
	gd := guide.FromRow(row)
	page.Guide = &gd

	var (
		g      errgroup.Group
		author *profile.User
		places []guide.GuidePlace
	)
	g.Go(func() error {
		u, err := r.src.Profiles.Get(ctx, row.UserID)
		if r.related(page, "author", err) {
			v := profile.FromRow(u)
			author = &v
		}
		return nil
	})
	g.Go(func() error {
		rows, err := r.src.Guides.Places(ctx, page.ID)
		if r.related(page, "places", err) {
			for _, pr := range rows {
				places = append(places, guide.PlaceFromRow(pr))
			}
		}
		return nil
	})
	_ = g.Wait()
	page.Author = author
	page.GuidePlaces = places
	return nil
}

// user loads a profile with its latest posts and follower count. Private
// profiles show no posts.
func (r *Resolver) user(ctx context.Context, page *Page) error {
	row, err := r.src.Profiles.Get(ctx, page.ID)
	if err != nil {
		return err
	}
	u := profile.FromRow(row)
	page.User = &u

	var (
		g         errgroup.Group
		posts     []post.Post
		followers int
	)
	if !u.Private() {
		g.Go(func() error {
			rows, err := r.src.Posts.ByUser(ctx, page.ID, post.ShareLimit)
			if r.related(page, "posts", err) {
				for _, pr := range rows {
					posts = append(posts, post.FromRow(pr))
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		n, err := r.src.Profiles.FollowerCount(ctx, page.ID)
		if r.related(page, "followers", err) {
			followers = n
		}
		return nil
	})
	_ = g.Wait()
	page.Posts = posts
	page.Followers = followers
	return nil
}
