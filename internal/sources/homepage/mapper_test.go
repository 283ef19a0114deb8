package homepage

import (
	"errors"
	"testing"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

func TestDecodeServices(t *testing.T) {
	groups, err := Decode(KindServices, []byte(servicesYAML))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if groups[0].Name != "Infrastructure" || groups[1].Name != "Media" {
		t.Fatalf("group names = %q, %q", groups[0].Name, groups[1].Name)
	}

	infra := groups[0].Bookmarks
	if len(infra) != 1 {
		t.Fatalf("Infrastructure has %d bookmarks, want 1 (template href skipped)", len(infra))
	}
	if infra[0].Title != "AdGuard Home" || infra[0].URL != "https://adguard.domain.ext" {
		t.Errorf("unexpected bookmark %+v", infra[0])
	}
	if infra[0].Favicon != "" {
		t.Errorf("icon name should not become a favicon, got %q", infra[0].Favicon)
	}
	if infra[0].Description == "" {
		t.Error("description should be carried over")
	}

	if got := groups[1].Bookmarks[0].Favicon; got != "https://cdn.example.com/jellyfin.png" {
		t.Errorf("Favicon = %q, want icon URL", got)
	}
}

func TestDecodeBookmarks(t *testing.T) {
	groups, err := Decode(KindBookmarks, []byte(bookmarksYAML))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Decode() returned %d groups, want 2", len(groups))
	}

	dev := groups[0]
	if dev.Name != "Developer" || len(dev.Bookmarks) != 1 || dev.Bookmarks[0].Title != "Github" {
		t.Errorf("unexpected developer group %+v", dev)
	}
	if got := groups[1].Bookmarks[0].Description; got != "The front page of the internet" {
		t.Errorf("Description = %q", got)
	}
}

func TestMapServicesMultipleKeysSorted(t *testing.T) {
	config := ServicesConfig{
		{
			"Group": []map[string]ServiceProps{
				{
					"Zeta":  {Href: "https://zeta.example.com"},
					"Alpha": {Href: "https://alpha.example.com"},
				},
			},
		},
	}

	groups, err := MapServices(config)
	if err != nil {
		t.Fatalf("MapServices() error = %v", err)
	}
	got := groups[0].Bookmarks
	if got[0].Title != "Alpha" || got[1].Title != "Zeta" {
		t.Errorf("titles = %q, %q, want Alpha, Zeta", got[0].Title, got[1].Title)
	}
}

func TestMapServicesEmptyConfig(t *testing.T) {
	groups, err := MapServices(ServicesConfig{})
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("MapServices() with empty config error = %v, want validation error", err)
	}
	if groups != nil {
		t.Errorf("MapServices() with empty config should return nil, got %d groups", len(groups))
	}
}

func TestMapBookmarksInvalidURL(t *testing.T) {
	config := BookmarksConfig{
		{
			"Test": []map[string][]BookmarkEntry{
				{"Invalid": {{Href: "not-a-valid-url"}}},
				{"Empty": {}},
			},
		},
	}

	groups, err := MapBookmarks(config)
	if err == nil {
		t.Error("MapBookmarks() should return error when no valid bookmarks found")
	}
	if groups != nil {
		t.Errorf("MapBookmarks() should return nil, got %d groups", len(groups))
	}
}
