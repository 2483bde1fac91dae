// Package deeplink builds the custom-scheme URIs the native app routes on.
// The path templates are part of the app's routing contract and must not change.
package deeplink

import (
	"net/url"
	"strings"
)

const Scheme = "wellington://"

// Kind is an entity type that has a share page and a deep link.
type Kind string

const (
	KindPost  Kind = "post"
	KindPlace Kind = "place"
	KindEvent Kind = "event"
	KindTrail Kind = "trail"
	KindGuide Kind = "guide"
	KindUser  Kind = "user"
)

// Kinds lists every shareable kind in route registration order.
var Kinds = []Kind{KindPost, KindPlace, KindEvent, KindTrail, KindGuide, KindUser}

var pathTemplates = map[Kind]string{
	KindPost:  "feed/post/",
	KindPlace: "feed/place/",
	KindUser:  "feed/user/",
	KindGuide: "feed/guide/",
	KindEvent: "events/",
	KindTrail: "map/trail/",
}

// ParseKind returns the Kind named by s and whether it is known.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(s))
	_, ok := pathTemplates[k]
	return k, ok
}

// Path joins an in-app path onto the scheme.
func Path(path string) string {
	return Scheme + "/" + path
}

// For returns the deep link for kind and id, or "" for an unknown kind.
func For(kind Kind, id string) string {
	tmpl, ok := pathTemplates[kind]
	if !ok {
		return ""
	}
	return Path(tmpl + id)
}

func Post(id string) string  { return For(KindPost, id) }
func Place(id string) string { return For(KindPlace, id) }
func Event(id string) string { return For(KindEvent, id) }
func Trail(id string) string { return For(KindTrail, id) }
func Guide(id string) string { return For(KindGuide, id) }
func User(id string) string  { return For(KindUser, id) }

// InstagramCallback forwards an OAuth authorization code into the app.
// Spaces are sent as %20; the app does not read '+' as a space.
func InstagramCallback(code string) string {
	return Scheme + "instagram-callback?code=" + strings.ReplaceAll(url.QueryEscape(code), "+", "%20")
}
