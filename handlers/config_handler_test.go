package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/pool-league-system/config"
)

func getConfigResponse(t *testing.T, cfg *config.Config) map[string]json.RawMessage {
	t.Helper()
	handler := NewConfigHandler(cfg)
	rec := httptest.NewRecorder()
	handler.GetConfig(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetConfigDefaults(t *testing.T) {
	body := getConfigResponse(t, &config.Config{
		LeagueName:        "Pool League",
		LeagueShortName:   "League",
		LeagueDescription: "Pool/Billiards League Management",
	})

	var league struct {
		Name         string  `json:"name"`
		ShortName    string  `json:"short_name"`
		ContactEmail *string `json:"contact_email"`
		Website      *string `json:"website"`
	}
	require.NoError(t, json.Unmarshal(body["league"], &league))
	assert.Equal(t, "Pool League", league.Name)
	assert.Equal(t, "League", league.ShortName)
	assert.Nil(t, league.ContactEmail)
	assert.Nil(t, league.Website)

	var features struct {
		SMSEnabled     bool `json:"sms_enabled"`
		StorageEnabled bool `json:"storage_enabled"`
	}
	require.NoError(t, json.Unmarshal(body["features"], &features))
	assert.False(t, features.SMSEnabled)
	assert.False(t, features.StorageEnabled)
}

func TestGetConfigFeatureFlags(t *testing.T) {
	body := getConfigResponse(t, &config.Config{
		LeagueName:             "Southside 8-Ball",
		LeagueContactEmail:     "office@southside.example.com",
		TwilioAccountSID:       "AC123",
		TwilioAuthToken:        "token",
		StorageAccessKeyID:     "key",
		StorageSecretAccessKey: "secret",
		StorageBucketName:      "league-backups",
	})

	var league struct {
		Name         string  `json:"name"`
		ContactEmail *string `json:"contact_email"`
	}
	require.NoError(t, json.Unmarshal(body["league"], &league))
	assert.Equal(t, "Southside 8-Ball", league.Name)
	require.NotNil(t, league.ContactEmail)
	assert.Equal(t, "office@southside.example.com", *league.ContactEmail)

	var features struct {
		SMSEnabled     bool `json:"sms_enabled"`
		StorageEnabled bool `json:"storage_enabled"`
	}
	require.NoError(t, json.Unmarshal(body["features"], &features))
	assert.True(t, features.SMSEnabled)
	assert.True(t, features.StorageEnabled)
}
