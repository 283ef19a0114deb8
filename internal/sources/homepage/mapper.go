package homepage

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// Group is one Homepage group or category, imported as one collection.
type Group struct {
	Name      string
	Bookmarks []domain.BookmarkFields
}

// MapServices converts services.yaml groups. Services without a valid href are skipped.
func MapServices(config ServicesConfig) ([]Group, error) {
	var groups []Group

	for _, groupMap := range config {
		for _, groupName := range sortedKeys(groupMap) {
			group := Group{Name: groupName}

			for _, serviceMap := range groupMap[groupName] {
				for _, serviceName := range sortedKeys(serviceMap) {
					props := serviceMap[serviceName]
					if !domain.IsValidURL(props.Href) {
						continue
					}
					group.Bookmarks = append(group.Bookmarks, domain.BookmarkFields{
						Title:       serviceName,
						URL:         props.Href,
						Description: props.Description,
						Favicon:     iconURL(props.Icon),
					})
				}
			}

			if len(group.Bookmarks) > 0 {
				groups = append(groups, group)
			}
		}
	}

	if len(groups) == 0 {
		return nil, errs.Invalid("homepage", "no valid services found")
	}
	return groups, nil
}

// MapBookmarks converts bookmarks.yaml categories.
func MapBookmarks(config BookmarksConfig) ([]Group, error) {
	var groups []Group

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			group := Group{Name: categoryName}

			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[bookmarkName]
					// Each bookmark has a list with a single entry
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]
					if !domain.IsValidURL(entry.Href) {
						continue
					}
					title := bookmarkName
					if strings.TrimSpace(title) == "" {
						title = entry.Abbr
					}
					group.Bookmarks = append(group.Bookmarks, domain.BookmarkFields{
						Title:       title,
						URL:         entry.Href,
						Description: entry.Description,
						Favicon:     iconURL(entry.Icon),
					})
				}
			}

			if len(group.Bookmarks) > 0 {
				groups = append(groups, group)
			}
		}
	}

	if len(groups) == 0 {
		return nil, errs.Invalid("homepage", "no valid bookmarks found")
	}
	return groups, nil
}

// iconURL keeps icons that are absolute URLs; Homepage icon names
// ("adguard-home.svg", "mdi-home") are dropped.
func iconURL(icon string) string {
	if domain.IsValidURL(icon) {
		return icon
	}
	return ""
}

// sortedKeys returns map keys in order; each YAML list item usually holds one.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
