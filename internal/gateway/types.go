package gateway

import "time"

// Link is a saved bookmark as returned by the backend. The embedded Collection
// ref is read-only denormalization for display; writes go through LinkAttrs.
type Link struct {
	ID           string         `json:"id"`
	URL          string         `json:"url"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Category     string         `json:"category,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	CollectionID string         `json:"collection_id,omitempty"`
	Favicon      string         `json:"favicon,omitempty"`
	Domain       string         `json:"domain,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	IsFavorite   bool           `json:"is_favorite"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed *time.Time     `json:"last_accessed,omitempty"`
	Collection   *CollectionRef `json:"collections,omitempty"`
}

// CollectionName returns the display name of the link's collection, if any.
func (l Link) CollectionName() string {
	if l.Collection == nil {
		return ""
	}
	return l.Collection.Name
}

// CollectionRef is the slice of collection columns the backend embeds into
// link rows for display.
type CollectionRef struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// LinkAttrs is the writable subset of a link, used for create and update.
type LinkAttrs struct {
	URL          string   `json:"url,omitempty"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CollectionID *string  `json:"collection_id,omitempty"`
	Favicon      string   `json:"favicon,omitempty"`
	Domain       string   `json:"domain,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	IsFavorite   *bool    `json:"is_favorite,omitempty"`
}

// Collection is a user-defined group of links.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
}

// CollectionAttrs is the writable subset of a collection.
type CollectionAttrs struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IsPrivate   *bool  `json:"is_private,omitempty"`
}

// Preferences are the per-user settings stored on the profile row.
type Preferences struct {
	Theme              string `json:"theme,omitempty"`
	DefaultView        string `json:"default_view,omitempty"`
	AutoAnalyze        *bool  `json:"auto_analyze,omitempty"`
	EmailNotifications *bool  `json:"email_notifications,omitempty"`
}

// Profile is the authenticated user's profile row.
type Profile struct {
	ID          string       `json:"id"`
	Email       string       `json:"email,omitempty"`
	FullName    string       `json:"full_name,omitempty"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	Role        string       `json:"role,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ProfileAttrs is the writable subset of a profile.
type ProfileAttrs struct {
	FullName    string       `json:"full_name,omitempty"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// Filter narrows a link listing. Zero value lists everything.
type Filter struct {
	CollectionID string
	Category     string
	FavoritesOnly bool
	Search       string
}

// DefaultCollectionColors are the preset hues offered when creating a collection.
var DefaultCollectionColors = []string{
	"#4f8ff7", "#f76f4f", "#4ff76f", "#f7cf4f", "#cf4ff7",
	"#4ff7f7", "#f74f8f", "#8ff74f", "#f78f4f", "#4f4ff7",
}
