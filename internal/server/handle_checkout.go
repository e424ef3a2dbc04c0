package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ejdedart/dartscore/internal/checkout"
	"github.com/ejdedart/dartscore/internal/darts"
)

// maxAlternatives caps the n query parameter of the checkout endpoint.
const maxAlternatives = 10

type DartResponse struct {
	Token    string     `json:"token"`
	Kind     darts.Kind `json:"kind"`
	Face     int        `json:"face"`
	Points   int        `json:"points"`
	IsDouble bool       `json:"isDouble"`
}

type CheckoutResponse struct {
	Score        int           `json:"score"`
	OutRule      darts.OutRule `json:"outRule"`
	Finishable   bool          `json:"finishable"`
	Line         []string      `json:"line"`
	Alternatives [][]string    `json:"alternatives"`
}

func handleParseDart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := darts.Parse(chi.URLParam(r, "token"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, DartResponse{
			Token:    d.Token(),
			Kind:     d.Kind,
			Face:     d.Face,
			Points:   d.Points,
			IsDouble: d.IsDouble(),
		})
	}
}

func handleCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score, err := strconv.Atoi(chi.URLParam(r, "score"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "score must be a number")
			return
		}

		out, err := darts.ParseOutRule(r.URL.Query().Get("out"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		n := checkout.DefaultAlternatives
		if raw := r.URL.Query().Get("n"); raw != "" {
			n, err = strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxAlternatives {
				writeError(w, http.StatusBadRequest, "n must be between 1 and 10")
				return
			}
		}

		resp := CheckoutResponse{
			Score:        score,
			OutRule:      out,
			Line:         []string{},
			Alternatives: [][]string{},
		}
		for _, line := range checkout.Alternatives(score, out, n) {
			resp.Alternatives = append(resp.Alternatives, darts.Tokens(line))
		}
		if len(resp.Alternatives) > 0 {
			resp.Finishable = true
			resp.Line = resp.Alternatives[0]
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
