package track

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// HTMLResolver finds the first <video> element of a page and collects its
// <track> children. Relative track sources resolve against the page
// location.
type HTMLResolver struct {
	Page    string
	Fetcher Fetcher
}

func (r *HTMLResolver) Resolve(ctx context.Context) (Set, error) {
	doc, err := r.Fetcher.Fetch(ctx, r.Page)
	if err != nil {
		return nil, err
	}
	return ParseHTML(strings.NewReader(doc), r.Page)
}

// ParseHTML extracts subtitle and caption tracks of the first video element.
// It returns *MissingElementError when the document has no video.
func ParseHTML(r io.Reader, page string) (Set, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	video := findElement(root, "video")
	if video == nil {
		return nil, &MissingElementError{Element: "video"}
	}

	set := Set{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "track" {
				if d, ok := trackDescriptor(c, page); ok {
					set.Add(d)
				}
				continue
			}
			walk(c)
		}
	}
	walk(video)

	return set, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func trackDescriptor(n *html.Node, page string) (Descriptor, bool) {
	d := Descriptor{
		Language: attr(n, "srclang"),
		Label:    attr(n, "label"),
		Kind:     strings.ToLower(attr(n, "kind")),
	}
	if d.Kind == "" {
		d.Kind = "subtitles"
	}
	if d.Kind != "subtitles" && d.Kind != "captions" {
		return Descriptor{}, false
	}

	src := attr(n, "src")
	if src == "" || d.Language == "" {
		return Descriptor{}, false
	}
	d.Source = resolveSource(page, src)
	return d, true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func resolveSource(page, src string) string {
	if isHTTP(page) {
		base, err := url.Parse(page)
		if err != nil {
			return src
		}
		ref, err := url.Parse(src)
		if err != nil {
			return src
		}
		return base.ResolveReference(ref).String()
	}

	if isHTTP(src) || filepath.IsAbs(src) || strings.HasPrefix(src, "file://") {
		return src
	}
	dir := filepath.Dir(strings.TrimPrefix(page, "file://"))
	return filepath.Join(dir, filepath.FromSlash(src))
}
