package catalog

import "encoding/json"

// apiTrack is the wire representation of a track.
type apiTrack struct {
	ID              int64          `json:"_id"`
	Name            string         `json:"name"`
	Author          string         `json:"author"`
	Album           string         `json:"album"`
	ReleaseDate     string         `json:"release_date"`
	Genre           genreList      `json:"genre"`
	TrackFile       string         `json:"track_file"`
	DurationSeconds float64        `json:"duration_in_seconds"`
	StaredUsers     []apiStaredRef `json:"stared_user"`
}

type apiStaredRef struct {
	ID int64 `json:"id"`
}

// genreList tolerates both a string and a list of strings, which the
// service serves interchangeably.
type genreList []string

func (g *genreList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*g = genreList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*g = genreList(many)
	return nil
}

// envelope is the service's standard response wrapper. Some endpoints
// return {success, data}, some {results}, some a bare array; the client
// normalizes all three before decoding the payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Results json.RawMessage `json:"results"`
}

type apiSelection struct {
	Title string     `json:"name"`
	Items []apiTrack `json:"items"`
}
