package handlers

import (
	"net/http"

	"github.com/rackline/pool-league-system/config"
)

// ConfigHandler exposes league branding and feature flags so the
// client can render itself without hardcoding deployment details.
type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

type leagueConfigResponse struct {
	Name         string  `json:"name"`
	ShortName    string  `json:"short_name"`
	Description  string  `json:"description"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Location     *string `json:"location"`
	Website      *string `json:"website"`
	Rules        *string `json:"rules"`
}

type featureFlagsResponse struct {
	SMSEnabled     bool `json:"sms_enabled"`
	StorageEnabled bool `json:"storage_enabled"`
}

// GetConfig is public so the login page can show branding before
// authentication.
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	resp := jsonResponse{
		"league": leagueConfigResponse{
			Name:         h.cfg.LeagueName,
			ShortName:    h.cfg.LeagueShortName,
			Description:  h.cfg.LeagueDescription,
			ContactEmail: optional(h.cfg.LeagueContactEmail),
			ContactPhone: optional(h.cfg.LeagueContactPhone),
			Location:     optional(h.cfg.LeagueLocation),
			Website:      optional(h.cfg.LeagueWebsite),
			Rules:        optional(h.cfg.LeagueRulesURL),
		},
		"features": featureFlagsResponse{
			SMSEnabled:     h.cfg.SMSConfigured(),
			StorageEnabled: h.cfg.StorageConfigured(),
		},
	}

	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
