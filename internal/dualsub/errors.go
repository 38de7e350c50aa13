package dualsub

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by lookups made before Build has succeeded.
var ErrNotReady = errors.New("synchronizer not ready")

// TranslationError reports the cue whose translation failed while deriving
// the secondary track. No secondary track is produced when it occurs.
type TranslationError struct {
	Index int
	Text  string
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("failed to translate cue %d (%q): %v", e.Index, e.Text, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}
