package device

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
)

// fetchTimeout bounds one source download. Catalog tracks are a few
// megabytes; anything slower than this is effectively unplayable anyway.
const fetchTimeout = 60 * time.Second

// fetchAndDecode downloads the source and prepares a seekable decoded
// stream. Buffering the body first gives the decoder a seekable input,
// which means a known length and working Seek for the whole track.
func fetchAndDecode(ctx context.Context, httpClient *http.Client, url string) (beep.StreamSeekCloser, beep.Format, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, beep.Format{}, fmt.Errorf("fetch source: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("read source: %w", err)
	}

	streamer, format, err := mp3.Decode(nopSeekCloser{bytes.NewReader(data)})
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode source: %w", err)
	}
	return streamer, format, nil
}

// nopSeekCloser adapts the in-memory buffer to the decoder's ReadCloser
// requirement.
type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }
