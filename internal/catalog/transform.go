package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	unknownAuthor = "Unknown artist"
	unknownAlbum  = "Unknown album"
	unknownGenre  = "Unknown genre"

	// The service omits author/album references; the web catalog links
	// everything to a single placeholder entity.
	placeholderRefID = "1"
)

func decodeTrackList(raw json.RawMessage) ([]apiTrack, error) {
	var tracks []apiTrack
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, fmt.Errorf("decode track list: %w", err)
	}
	return tracks, nil
}

// transformTracks converts wire tracks into Track entities. Entries
// without an id or a name cannot be referenced or displayed and are
// dropped rather than substituted with broken placeholders.
func transformTracks(in []apiTrack) []Track {
	return lo.FilterMap(in, func(t apiTrack, _ int) (Track, bool) {
		if t.ID == 0 || t.Name == "" {
			return Track{}, false
		}
		return transformTrack(t), true
	})
}

func transformTrack(t apiTrack) Track {
	genre := strings.Join(t.Genre, ", ")
	if genre == "" {
		genre = unknownGenre
	}

	title, suffix := splitTitle(t.Name)
	out := Track{
		TrackID:       strconv.FormatInt(t.ID, 10),
		Title:         title,
		TitleSuffix:   suffix,
		Author:        t.Author,
		Album:         t.Album,
		DurationLabel: formatDuration(t.DurationSeconds, defaultDurationSeconds),
		Genre:         genre,
		AuthorID:      placeholderRefID,
		AlbumID:       placeholderRefID,
		SourceURL:     t.TrackFile,
		IsFavorite:    len(t.StaredUsers) > 0,
	}
	if out.Author == "" {
		out.Author = unknownAuthor
	}
	if out.Album == "" {
		out.Album = unknownAlbum
	}
	return out
}

// splitTitle separates a trailing parenthesized annotation such as
// "(Remix)" or "(feat. AR/CO)" from a track name. The service stores the
// annotation inside the name; the list renders it after the title in a
// lighter style.
func splitTitle(name string) (title, suffix string) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, ")") {
		return name, ""
	}
	i := strings.LastIndex(name, "(")
	if i <= 0 {
		// No opening paren, or the whole name is the annotation.
		return name, ""
	}
	title = strings.TrimSpace(name[:i])
	if title == "" {
		return name, ""
	}
	return title, name[i:]
}

// defaultDurationSeconds stands in when the service omits a duration.
const defaultDurationSeconds = 180

// formatDuration renders seconds as "M:SS", falling back to def when the
// value is missing or nonsense.
func formatDuration(seconds, def float64) string {
	if seconds <= 0 {
		seconds = def
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
