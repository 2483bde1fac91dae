package post

import (
	"sort"
	"time"
)

const kind = "post"

var Types = []string{"photo", "video", "text"}

// MediaRow mirrors post_media.
type MediaRow struct {
	ID           string  `json:"id"`
	PostID       string  `json:"post_id"`
	MediaURL     string  `json:"media_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	MediaType    string  `json:"media_type"`
	MediaWidth   *int    `json:"media_width"`
	MediaHeight  *int    `json:"media_height"`
	SortOrder    int     `json:"sort_order"`
}

type Media struct {
	ID           string  `json:"id"`
	MediaURL     string  `json:"mediaUrl"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	MediaType    string  `json:"mediaType"`
	MediaWidth   *int    `json:"mediaWidth,omitempty"`
	MediaHeight  *int    `json:"mediaHeight,omitempty"`
	SortOrder    int     `json:"sortOrder"`
}

// Row mirrors posts with its media joined in.
type Row struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	PlaceID      string     `json:"place_id"`
	Type         string     `json:"type"`
	Content      string     `json:"content"`
	MediaURL     *string    `json:"media_url"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	MediaWidth   *int       `json:"media_width"`
	MediaHeight  *int       `json:"media_height"`
	Likes        int        `json:"likes"`
	CreatedAt    time.Time  `json:"created_at"`
	Media        []MediaRow `json:"post_media"`
}

type Post struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PlaceID      string    `json:"placeId"`
	Type         string    `json:"type"`
	Content      string    `json:"content"`
	MediaURL     *string   `json:"mediaUrl,omitempty"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty"`
	MediaWidth   *int      `json:"mediaWidth,omitempty"`
	MediaHeight  *int      `json:"mediaHeight,omitempty"`
	Likes        int       `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
	Media        []Media   `json:"media,omitempty"`
}

func MediaFromRow(r MediaRow) Media {
	return Media{
		ID:           r.ID,
		MediaURL:     r.MediaURL,
		ThumbnailURL: r.ThumbnailURL,
		MediaType:    r.MediaType,
		MediaWidth:   r.MediaWidth,
		MediaHeight:  r.MediaHeight,
		SortOrder:    r.SortOrder,
	}
}

// FromRow maps a post. Media is sorted by sort order and is nil when empty.
func FromRow(r Row) Post {
	p := Post{
		ID:           r.ID,
		UserID:       r.UserID,
		PlaceID:      r.PlaceID,
		Type:         r.Type,
		Content:      r.Content,
		MediaURL:     r.MediaURL,
		ThumbnailURL: r.ThumbnailURL,
		MediaWidth:   r.MediaWidth,
		MediaHeight:  r.MediaHeight,
		Likes:        r.Likes,
		CreatedAt:    r.CreatedAt,
	}
	if len(r.Media) == 0 {
		return p
	}
	sorted := append([]MediaRow(nil), r.Media...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })
	p.Media = make([]Media, len(sorted))
	for i, m := range sorted {
		p.Media[i] = MediaFromRow(m)
	}
	return p
}

// Image is the best thumbnail for grids and previews: first media url, first
// media thumbnail, legacy media url, legacy thumbnail.
func (p Post) Image() string {
	if len(p.Media) > 0 {
		if p.Media[0].MediaURL != "" {
			return p.Media[0].MediaURL
		}
		if p.Media[0].ThumbnailURL != nil {
			return *p.Media[0].ThumbnailURL
		}
	}
	if p.MediaURL != nil {
		return *p.MediaURL
	}
	if p.ThumbnailURL != nil {
		return *p.ThumbnailURL
	}
	return ""
}

// HeroImage is the full-size image shown on the post page.
func (p Post) HeroImage() string {
	if len(p.Media) > 0 && p.Media[0].MediaURL != "" {
		return p.Media[0].MediaURL
	}
	if p.MediaURL != nil {
		return *p.MediaURL
	}
	return ""
}

// ListItem is a post row joined with its author and place names.
type ListItem struct {
	ID        string
	Content   string
	Type      string
	Likes     int
	CreatedAt time.Time
	UserID    string
	PlaceID   string
	Username  *string
	PlaceName *string
}
