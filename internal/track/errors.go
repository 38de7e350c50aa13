package track

import "fmt"

// MissingElementError reports a required video element or language track
// that the source does not provide.
type MissingElementError struct {
	Element  string
	Language string
}

func (e *MissingElementError) Error() string {
	if e.Language != "" {
		return fmt.Sprintf("no %s found for language %q", e.Element, e.Language)
	}
	return fmt.Sprintf("no %s element found", e.Element)
}

// FetchError reports a track source that could not be retrieved. Status is
// the HTTP status code when the failure came from a response.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
