package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Kind classifies why a fetch failed. The traversal reacts to every kind the
// same way (skip the URL and continue), but keeps per-kind counts so an empty
// result remains diagnosable.
type Kind int

const (
	KindNetwork Kind = iota // timeout, connection error, non-2xx status
	KindDecode              // gzip decompression error
	KindParse               // malformed XML
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindParse:
		return "parse"
	}
	return "unknown"
}

// Error is a classified fetch failure for a single URL.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failure for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error returned by Fetch.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// Fetcher retrieves sitemap documents over HTTP with a fixed User-Agent,
// decompressing gzip payloads transparently.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher whose requests time out after the given duration.
func New(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch retrieves url and parses the body as XML, returning the document root.
// Bodies are gzip-decompressed when the URL ends in .gz or the response
// declares a gzip content type. All failures come back as *Error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*etree.Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindNetwork, URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, URL: url, Err: err}
	}

	if strings.HasSuffix(url, ".gz") || isGzipContentType(resp.Header.Get("Content-Type")) {
		body, err = gunzip(body)
		if err != nil {
			return nil, &Error{Kind: KindDecode, URL: url, Err: err}
		}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, &Error{Kind: KindParse, URL: url, Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &Error{Kind: KindParse, URL: url, Err: fmt.Errorf("empty document")}
	}
	return root, nil
}

func gunzip(data []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}

func isGzipContentType(ct string) bool {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	return ct == "application/x-gzip" || ct == "application/gzip"
}
