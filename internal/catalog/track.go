// Package catalog provides a client for the remote streaming catalog API
// and the Track entity used throughout the player.
package catalog

// Track is a playable catalog item. Two tracks refer to the same entity
// iff their TrackID is equal; every other field is display metadata.
type Track struct {
	TrackID       string
	Title         string
	TitleSuffix   string
	Author        string
	Album         string
	DurationLabel string // preformatted "M:SS"
	Genre         string
	AuthorID      string
	AlbumID       string
	SourceURL     string // empty means not playable
	IsFavorite    bool
}

// Playable returns true if the track has a stream source.
func (t Track) Playable() bool {
	return t.SourceURL != ""
}

// Same reports whether other refers to the same catalog entity.
func (t Track) Same(other Track) bool {
	return t.TrackID != "" && t.TrackID == other.TrackID
}

// Selection is a curated playlist fetched from the catalog.
type Selection struct {
	Title  string
	Tracks []Track
}
