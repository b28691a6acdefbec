package audio

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat is returned for sources that cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// openSource opens a local file or an http(s) URL.
// It returns the body and a format hint (file extension without the dot).
func openSource(ctx context.Context, client *http.Client, source string) (io.ReadCloser, string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, "", errors.Wrap(err, "invalid source URL")
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to fetch source")
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, "", errors.Newf("failed to fetch source: status %d", resp.StatusCode)
		}
		hint := formatFromContentType(resp.Header.Get("Content-Type"))
		if hint == "" {
			if u, err := url.Parse(source); err == nil {
				hint = formatFromPath(u.Path)
			}
		}
		return resp.Body, hint, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to open source")
	}
	return f, formatFromPath(source), nil
}

// decode decodes the body with the decoder for format. Unknown formats are tried as mp3.
func decode(rc io.ReadCloser, format string) (beep.StreamSeekCloser, beep.Format, error) {
	switch format {
	case "mp3", "":
		return mp3.Decode(rc)
	case "wav":
		return wav.Decode(rc)
	case "flac":
		return flac.Decode(rc)
	default:
		return nil, beep.Format{}, errors.Mark(errors.Newf("cannot decode %q", format), ErrUnsupportedFormat)
	}
}

func formatFromContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return "wav"
	case "audio/flac", "audio/x-flac":
		return "flac"
	}
	return ""
}

func formatFromPath(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}
