package handlers

import (
	"net/http"

	"github.com/rackline/pool-league-system/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

func (h *StandingsHandler) ListStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standingsService.ListStandings(r.Context(), queryInt(r, "season_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) GetTeamStanding(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standing, err := h.standingsService.GetTeamStanding(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standing": standing}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) ListPlayerRankings(w http.ResponseWriter, r *http.Request) {
	limit := 25
	if v := queryInt(r, "limit"); v != nil && *v > 0 {
		limit = *v
	}

	rankings, err := h.standingsService.ListPlayerRankings(r.Context(), queryInt(r, "season_id"), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": rankings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	team1ID, err := getIDFromURL(r, "team1ID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	team2ID, err := getIDFromURL(r, "team2ID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h2h, err := h.standingsService.GetHeadToHead(r.Context(), team1ID, team2ID, queryInt(r, "season_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"head_to_head": h2h}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) RecalculateStandings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.standingsService.RecalculateSeasonStandings(r.Context(), seasonID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "standings recalculated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
