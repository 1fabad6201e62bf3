package handlers

import (
	"net/http"

	"github.com/rackline/pool-league-system/middleware"
	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
	"github.com/rackline/pool-league-system/services"
)

type MatchHandler struct {
	matchService     services.MatchService
	standingsService services.StandingsService
}

func NewMatchHandler(ms services.MatchService, ss services.StandingsService) *MatchHandler {
	return &MatchHandler{
		matchService:     ms,
		standingsService: ss,
	}
}

func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatchByID(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	filter := repositories.MatchFilter{
		SeasonID: queryInt(r, "season_id"),
		TeamID:   queryInt(r, "team_id"),
		Week:     queryInt(r, "week"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.MatchStatus(raw)
		if !status.Valid() {
			mapServiceErrorToHTTP(w, r, services.ErrInvalidMatchStatus)
			return
		}
		filter.Status = &status
	}
	if v := queryBool(r, "upcoming"); v != nil {
		filter.Upcoming = *v
	}
	if v := queryInt(r, "limit"); v != nil {
		filter.Limit = *v
	}

	matches, err := h.matchService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Update(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Delete(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ScoreMatch records the final score. League managers may score any
// match; a captain may only score a match their own team played.
func (h *MatchHandler) ScoreMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		HomeScore int `json:"home_score"`
		AwayScore int `json:"away_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authorizeScoring(r, matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	match, err := h.standingsService.RecordMatchScore(r.Context(), matchID, input.HomeScore, input.AwayScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordGameResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordGameResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	if err := h.authorizeScoring(r, matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	stats, err := h.standingsService.RecordGameResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player_stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.matchService.ListResults(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) authorizeScoring(r *http.Request, matchID int) error {
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		return services.ErrAuthenticationFailed
	}
	if role.CanManageLeague() {
		return nil
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return services.ErrAuthenticationFailed
	}

	match, err := h.matchService.GetByID(r.Context(), matchID)
	if err != nil {
		return err
	}
	for _, team := range []*models.Team{match.HomeTeam, match.AwayTeam} {
		if team != nil && team.HasCaptain(userID) {
			return nil
		}
	}
	return services.ErrNotTeamCaptain
}
