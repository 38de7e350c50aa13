// Package track locates subtitle tracks for a video and fetches their text.
//
// A Resolver produces a Set keyed by normalized language, so callers look a
// lane up by language instead of scanning elements. A Fetcher turns a
// Descriptor's Source into raw captions text.
package track

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Descriptor is one subtitle track offered by the video.
type Descriptor struct {
	Language string `json:"language"`
	Label    string `json:"label,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Source   string `json:"source"`
}

// Set maps a normalized language to its track. The first track seen for a
// language wins.
type Set map[string]Descriptor

// Add records d unless its language is already present.
func (s Set) Add(d Descriptor) bool {
	key := NormalizeLanguage(d.Language)
	if key == "" {
		return false
	}
	if _, exists := s[key]; exists {
		return false
	}
	s[key] = d
	return true
}

// Lookup returns the track for lang or a *MissingElementError.
func (s Set) Lookup(lang string) (Descriptor, error) {
	if d, ok := s[NormalizeLanguage(lang)]; ok {
		return d, nil
	}
	return Descriptor{}, &MissingElementError{Element: "track", Language: lang}
}

func (s Set) Has(lang string) bool {
	_, ok := s[NormalizeLanguage(lang)]
	return ok
}

// Languages lists the keys in sorted order.
func (s Set) Languages() []string {
	langs := make([]string, 0, len(s))
	for lang := range s {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

type Resolver interface {
	Resolve(ctx context.Context) (Set, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// NormalizeLanguage reduces a BCP 47 or ISO 639 tag to its base language,
// so "en-US", "eng" and "EN" all map to "en".
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return strings.ToLower(tag)
	}
	base, confidence := parsed.Base()
	if confidence == language.No {
		return strings.ToLower(tag)
	}
	return base.String()
}

// StaticResolver serves a fixed list of tracks.
type StaticResolver struct {
	Tracks []Descriptor
}

func (r *StaticResolver) Resolve(ctx context.Context) (Set, error) {
	set := Set{}
	for _, d := range r.Tracks {
		set.Add(d)
	}
	return set, nil
}
