package models

type DashboardStats struct {
	TotalUsers          int     `json:"total_users"`
	ActiveUsers         int     `json:"active_users"`
	InactiveUsers       int     `json:"inactive_users"`
	TotalTeams          int     `json:"total_teams"`
	TotalMatches        int     `json:"total_matches"`
	CompletedMatches    int     `json:"completed_matches"`
	UpcomingMatches     int     `json:"upcoming_matches"`
	MatchCompletionRate float64 `json:"match_completion_rate"`
}

type Dashboard struct {
	Stats        DashboardStats `json:"stats"`
	ActiveSeason *Season        `json:"active_season,omitempty"`
	RecentLogs   []*AuditLog    `json:"recent_activity"`
}
