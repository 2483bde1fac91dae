// Package handoff models the "Open in app" control: try the deep link, and if
// the page is still in the foreground after Timeout, go to the store listing.
//
// The browser runs the same policy from the data attributes returned by Attrs;
// Activate is the server-side reference used by tests and tooling.
package handoff

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const DefaultTimeout = 1500 * time.Millisecond

// Widget holds the injectable parts of the handoff race.
type Widget struct {
	Timeout time.Duration
	// Navigate is the navigation sink (window.location in the browser).
	Navigate func(url string)
	// After defaults to time.After.
	After func(d time.Duration) <-chan time.Time
}

// Activate navigates to deepLink, then to storeURL once the timeout elapses.
// Cancelling ctx stands for the OS intercepting the link and backgrounding the
// page; in that case the fallback never fires. Activate returns true when it
// navigated to the store.
func (w Widget) Activate(ctx context.Context, deepLink, storeURL string) bool {
	navigate := w.Navigate
	if navigate == nil {
		navigate = func(string) {}
	}
	after := w.After
	if after == nil {
		after = time.After
	}

	navigate(deepLink)

	select {
	case <-after(w.timeout()):
		if ctx.Err() != nil {
			return false
		}
		navigate(storeURL)
		return true
	case <-ctx.Done():
		return false
	}
}

func (w Widget) timeout() time.Duration {
	if w.Timeout <= 0 {
		return DefaultTimeout
	}
	return w.Timeout
}

// Attrs are the data-* attributes the page script reads.
type Attrs struct {
	DeepLink  string
	StoreURL  string
	TimeoutMS string
}

// Stores holds the two public listings.
type Stores struct {
	AppStoreURL  string
	PlayStoreURL string
}

// For picks the listing matching the requesting device.
func (s Stores) For(userAgent string) string {
	if strings.Contains(strings.ToLower(userAgent), "android") && s.PlayStoreURL != "" {
		return s.PlayStoreURL
	}
	return s.AppStoreURL
}

// Attrs returns the attributes for a page rendered for userAgent.
func (w Widget) Attrs(deepLink string, stores Stores, userAgent string) Attrs {
	return Attrs{
		DeepLink:  deepLink,
		StoreURL:  stores.For(userAgent),
		TimeoutMS: strconv.FormatInt(w.timeout().Milliseconds(), 10),
	}
}
