// Package sources knows where browsers keep their history and bookmark
// stores and resolves which of them exist for the current user.
package sources

import (
	"github.com/ilexum-group/webtrail/pkg/models"
)

const appSupport = "Library/Application Support/"

type chromiumBrowser struct {
	id      string
	profile string // directory holding History and Bookmarks
}

// Registration order matters: it is the tie-breaker for duplicate URLs, so
// history stores (which carry visit counts) come before bookmark trees.
var chromiumBrowsers = []chromiumBrowser{
	{"chrome", appSupport + "Google/Chrome/Default"},
	{"brave", appSupport + "BraveSoftware/Brave-Browser/Default"},
	{"brave_beta", appSupport + "BraveSoftware/Brave-Browser-Beta/Default"},
	{"brave_dev", appSupport + "BraveSoftware/Brave-Browser-Dev/Default"},
	{"chromium", appSupport + "Chromium/Default"},
	{"opera", appSupport + "com.operasoftware.Opera"},
	{"sidekick", appSupport + "Sidekick/Default"},
	{"vivaldi", appSupport + "Vivaldi/Default"},
	{"edge", appSupport + "Microsoft Edge/Default"},
	{"arc", appSupport + "Arc/User Data/Default"},
	{"dia", appSupport + "Dia/User Data/Default"},
	{"thorium", appSupport + "Thorium/Default"},
	{"comet", appSupport + "Comet/Default"},
	{"helium", appSupport + "net.imput.helium/Default"},
}

// BookmarksSuffix is appended to a browser id to name its bookmark source
const BookmarksSuffix = "_bookmarks"

// DefaultRegistry returns the built-in source descriptors in registration order
func DefaultRegistry() []models.SourceDescriptor {
	reg := make([]models.SourceDescriptor, 0, 2*len(chromiumBrowsers)+3)

	for _, b := range chromiumBrowsers {
		reg = append(reg, models.SourceDescriptor{
			ID:           b.id,
			PathTemplate: b.profile + "/History",
			Format:       models.FormatHistoryDB,
			Schema:       models.SchemaChromium,
		})
	}

	reg = append(reg,
		models.SourceDescriptor{
			ID:           "firefox",
			PathTemplate: appSupport + "Firefox/Profiles",
			Format:       models.FormatHistoryDB,
			Schema:       models.SchemaFirefox,
			ProfileScan: &models.ProfileScan{
				Basename:     "places.sqlite",
				PreferSuffix: "default-release",
				MaxDepth:     2,
			},
		},
		models.SourceDescriptor{
			ID:           "safari",
			PathTemplate: "Library/Safari/History.db",
			Format:       models.FormatHistoryDB,
			Schema:       models.SchemaSafari,
		},
	)

	for _, b := range chromiumBrowsers {
		reg = append(reg, models.SourceDescriptor{
			ID:           b.id + BookmarksSuffix,
			PathTemplate: b.profile + "/Bookmarks",
			Format:       models.FormatBookmarksJSON,
		})
	}

	reg = append(reg, models.SourceDescriptor{
		ID:           "safari" + BookmarksSuffix,
		PathTemplate: "Library/Safari/Bookmarks.plist",
		Format:       models.FormatBookmarksPlist,
	})

	return reg
}

// Lookup finds a descriptor by id
func Lookup(registry []models.SourceDescriptor, id string) (models.SourceDescriptor, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return models.SourceDescriptor{}, false
}
