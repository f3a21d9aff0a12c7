package streamfile

import (
	"net/http"

	"github.com/jfbus/httprs"
)

// HTTP is a StreamFile backed by HTTP range requests, for decoding a
// container without downloading it first. Grounded on jfbus/httprs, which
// implements io.ReaderAt/io.Seeker over a URL using Range headers.
type HTTP struct {
	rs  *httprs.HttpReadSeeker
	url string
}

// OpenHTTP issues a HEAD request to learn the resource's size and wraps
// subsequent reads as Range requests.
func OpenHTTP(url string) (*HTTP, error) {
	resp, err := http.Head(url)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	rs := httprs.NewHttpReadSeeker(&http.Request{Method: "GET", URL: resp.Request.URL}, http.DefaultClient)
	return &HTTP{rs: rs, url: url}, nil
}

func (h *HTTP) ReadAt(buf []byte, offset int64) (int, error) {
	return h.rs.ReadAt(buf, offset)
}

func (h *HTTP) Size() int64 {
	return h.rs.Size()
}

func (h *HTTP) Close() error {
	return nil
}

func (h *HTTP) Clone() (StreamFile, error) {
	return OpenHTTP(h.url)
}
