package site

import "welly-web/internal/deeplink"

type AppSiteAssociation struct {
	AppLinks       AppLinks       `json:"applinks"`
	WebCredentials WebCredentials `json:"webcredentials"`
}

type AppLinks struct {
	Apps    []string        `json:"apps"`
	Details []AppLinkDetail `json:"details"`
}

type AppLinkDetail struct {
	AppID string   `json:"appID"`
	Paths []string `json:"paths"`
}

type WebCredentials struct {
	Apps []string `json:"apps"`
}

// AppSiteAssociation lets iOS open share URLs straight in the app.
func (h *Handler) AppSiteAssociation() AppSiteAssociation {
	appID := h.opts.AppleTeamID + "." + h.opts.BundleID
	paths := make([]string, 0, len(deeplink.Kinds))
	for _, k := range deeplink.Kinds {
		paths = append(paths, "/"+string(k)+"/*")
	}
	return AppSiteAssociation{
		AppLinks: AppLinks{
			Apps:    []string{},
			Details: []AppLinkDetail{{AppID: appID, Paths: paths}},
		},
		WebCredentials: WebCredentials{Apps: []string{appID}},
	}
}
