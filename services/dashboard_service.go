package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

type DashboardService interface {
	GetDashboard(ctx context.Context) (*models.Dashboard, error)
}

type dashboardService struct {
	userRepo     repositories.UserRepository
	teamRepo     repositories.TeamRepository
	matchRepo    repositories.MatchRepository
	seasonRepo   repositories.SeasonRepository
	auditLogRepo repositories.AuditLogRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	seasonRepo repositories.SeasonRepository,
	auditLogRepo repositories.AuditLogRepository,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		seasonRepo:   seasonRepo,
		auditLogRepo: auditLogRepo,
	}
}

// GetDashboard gathers the admin overview. The counts are independent
// queries and run concurrently. Match counts are scoped to the active
// season; without one they stay zero.
func (s *dashboardService) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	dashboard := &models.Dashboard{}

	activeSeason, err := s.seasonRepo.GetActive(ctx)
	if err != nil && !errors.Is(err, repositories.ErrNoActiveSeason) {
		return nil, err
	}
	dashboard.ActiveSeason = activeSeason

	active := true
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gErr error
		dashboard.Stats.TotalUsers, gErr = s.userRepo.Count(gctx, nil)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		dashboard.Stats.ActiveUsers, gErr = s.userRepo.Count(gctx, &active)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		dashboard.RecentLogs, gErr = s.auditLogRepo.ListRecent(gctx, 20)
		return gErr
	})
	if activeSeason != nil {
		seasonID := activeSeason.ID
		g.Go(func() error {
			var gErr error
			dashboard.Stats.TotalTeams, gErr = s.teamRepo.CountBySeason(gctx, seasonID)
			return gErr
		})
		g.Go(func() error {
			var gErr error
			dashboard.Stats.TotalMatches, gErr = s.matchRepo.CountBySeason(gctx, seasonID, nil, false)
			return gErr
		})
		g.Go(func() error {
			completed := models.MatchStatusCompleted
			var gErr error
			dashboard.Stats.CompletedMatches, gErr = s.matchRepo.CountBySeason(gctx, seasonID, &completed, false)
			return gErr
		})
		g.Go(func() error {
			var gErr error
			dashboard.Stats.UpcomingMatches, gErr = s.matchRepo.CountBySeason(gctx, seasonID, nil, true)
			return gErr
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard.Stats.InactiveUsers = dashboard.Stats.TotalUsers - dashboard.Stats.ActiveUsers
	if dashboard.Stats.TotalMatches > 0 {
		dashboard.Stats.MatchCompletionRate = float64(dashboard.Stats.CompletedMatches) / float64(dashboard.Stats.TotalMatches)
	}
	return dashboard, nil
}
