package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"linksift/internal/urlval"
)

var (
	ErrTooLarge     = errors.New("response_too_large")
	ErrTooManyRedir = errors.New("too_many_redirects")
	ErrBadStatus    = errors.New("bad_status")
)

// Page is what the crawler keeps from a fetched document: its title and the
// sanitized outbound links.
type Page struct {
	Title string
	Links []string
}

type Fetcher struct {
	Client    *http.Client
	MaxBytes  int64
	UserAgent string
}

func New(maxBytes int64, userAgent string) *Fetcher {
	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return ErrTooManyRedir
			}
			return nil
		},
	}
	return &Fetcher{Client: client, MaxBytes: maxBytes, UserAgent: userAgent}
}

// Fetch downloads rawURL and extracts every http(s) link, resolved against
// the final (post-redirect) address, sanitized and defragged. Duplicate
// targets within the page collapse to one entry.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Page{}, ErrBadStatus
	}

	limited := io.LimitReader(resp.Body, f.MaxBytes+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		return Page{}, err
	}
	if int64(len(buf)) > f.MaxBytes {
		return Page{}, ErrTooLarge
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf))
	if err != nil {
		return Page{}, err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	base := urlval.Parse(resp.Request.URL.String())
	seen := map[string]struct{}{}
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		link := base.Relative(href).Sanitize().Defrag()
		if !link.Absolute() {
			return
		}
		if link.Scheme() != "http" && link.Scheme() != "https" {
			return
		}
		text := link.String()
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		links = append(links, text)
	})

	return Page{Title: title, Links: links}, nil
}
