// Package api serves the active cue pair over HTTP so a browser overlay can
// poll it from the page's timeupdate handler.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/logging"
	"github.com/mgpai22/dualsub/internal/subtitle"
)

// Overlay is the read side of a built synchronizer.
type Overlay interface {
	OnTimeUpdate(t time.Duration) (dualsub.Frame, error)
	Sequence(lane dualsub.Lane) (subtitle.Sequence, error)
	Timeline() ([]dualsub.Span, error)
}

// Info describes the session behind the overlay.
type Info struct {
	SessionID         string `json:"session_id"`
	PrimaryLanguage   string `json:"primary_language"`
	SecondaryLanguage string `json:"secondary_language"`
	Translated        bool   `json:"translated"`
}

func NewRouter(overlay Overlay, info Info, allowedOrigins []string, log *logging.Logger) *chi.Mux {
	if log == nil {
		log = logging.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(corsOptions(allowedOrigins)))

	h := &handler{overlay: overlay, info: info}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/frame", h.frame)
		r.Get("/cues/{lane}", h.cues)
		r.Get("/timeline", h.timeline)
		r.Get("/merged.vtt", h.mergedVTT)
	})

	return r
}
