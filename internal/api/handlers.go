package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/subtitle"
)

type handler struct {
	overlay Overlay
	info    Info
}

// times on the wire are seconds, as the page's currentTime is
type frameResponse struct {
	Time      float64 `json:"time"`
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary"`
}

type cueResponse struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type spanResponse struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{
		"status":  "ok",
		"session": h.info,
	}, http.StatusOK)
}

func (h *handler) frame(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("t")
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		jsonError(w, "query parameter t must be a non-negative number of seconds", http.StatusBadRequest)
		return
	}

	frame, err := h.overlay.OnTimeUpdate(subtitle.SecondsToDuration(seconds))
	if err != nil {
		overlayError(w, err)
		return
	}

	jsonResponse(w, frameResponse{
		Time:      seconds,
		Primary:   frame.Primary,
		Secondary: frame.Secondary,
	}, http.StatusOK)
}

func (h *handler) cues(w http.ResponseWriter, r *http.Request) {
	lane, err := dualsub.ParseLane(chi.URLParam(r, "lane"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	seq, err := h.overlay.Sequence(lane)
	if err != nil {
		overlayError(w, err)
		return
	}

	out := make([]cueResponse, 0, len(seq))
	for _, cue := range seq {
		out = append(out, cueResponse{
			Start: seconds(cue.Start),
			End:   seconds(cue.End),
			Text:  cue.Text,
		})
	}
	jsonResponse(w, out, http.StatusOK)
}

func (h *handler) timeline(w http.ResponseWriter, r *http.Request) {
	spans, err := h.overlay.Timeline()
	if err != nil {
		overlayError(w, err)
		return
	}

	out := make([]spanResponse, 0, len(spans))
	for _, s := range spans {
		out = append(out, spanResponse{
			Start:     seconds(s.Start),
			End:       seconds(s.End),
			Primary:   s.Frame.Primary,
			Secondary: s.Frame.Secondary,
		})
	}
	jsonResponse(w, out, http.StatusOK)
}

// mergedVTT serves both lanes stacked in one WebVTT track, usable directly
// as a <track> source
func (h *handler) mergedVTT(w http.ResponseWriter, r *http.Request) {
	spans, err := h.overlay.Timeline()
	if err != nil {
		overlayError(w, err)
		return
	}

	cues := make(subtitle.Sequence, 0, len(spans))
	for _, s := range spans {
		text := s.Frame.Primary
		if s.Frame.Secondary != "" {
			if text != "" {
				text += "\n"
			}
			text += s.Frame.Secondary
		}
		cues = append(cues, subtitle.Cue{Start: s.Start, End: s.End, Text: text})
	}

	w.Header().Set("Content-Type", "text/vtt; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(subtitle.EncodeVTT(cues)))
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func overlayError(w http.ResponseWriter, err error) {
	if errors.Is(err, dualsub.ErrNotReady) {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonResponse(w, map[string]string{"error": msg}, status)
}
