package homepage

// ServicesConfig is the top-level structure of services.yaml.
// Homepage uses dynamic keys: - Group: [ - Service: { href, ... } ]
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps contains the service properties Jump reads.
type ServiceProps struct {
	Href        string                 `yaml:"href"`
	Icon        string                 `yaml:"icon,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Target      string                 `yaml:"target,omitempty"`
	Ping        string                 `yaml:"ping,omitempty"`
	SiteMonitor string                 `yaml:"siteMonitor,omitempty"`
	Widget      map[string]interface{} `yaml:"widget,omitempty"`
}

// BookmarkEntry is a single bookmark entry in bookmarks.yaml.
type BookmarkEntry struct {
	Icon        string `yaml:"icon"`
	Abbr        string `yaml:"abbr"`
	Href        string `yaml:"href"`
	Description string `yaml:"description,omitempty"`
}

// BookmarkCategory maps a category to its bookmarks.
// Each bookmark name maps to a list holding a single entry:
// - Category: [ - Name: [ { icon, abbr, href } ] ]
type BookmarkCategory map[string][]map[string][]BookmarkEntry

// BookmarksConfig is the root structure of bookmarks.yaml.
type BookmarksConfig []BookmarkCategory
