package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rackline/pool-league-system/handlers"
	"github.com/rackline/pool-league-system/middleware"
	"github.com/rackline/pool-league-system/models"
)

// SetupRoutes mounts the full API surface. Read endpoints for
// standings, schedules and teams are public; mutation requires a
// token, and league management requires the ADMIN or LEAGUE_OFFICIAL
// role.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	seasonHandler *handlers.SeasonHandler,
	venueHandler *handlers.VenueHandler,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
	inviteHandler *handlers.InviteHandler,
	announcementHandler *handlers.AnnouncementHandler,
	adminHandler *handlers.AdminHandler,
	configHandler *handlers.ConfigHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.Get("/invite", inviteHandler.GetInviteByToken)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Get("/me", authHandler.Me)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/change-password", authHandler.ChangePassword)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/{userID}", userHandler.GetUserByID)
		r.Put("/{userID}", userHandler.UpdateUser)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireLeagueManager)
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Post("/{userID}/reset-password", userHandler.ResetPassword)
			r.Post("/{userID}/deactivate", userHandler.DeactivateUser)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Delete("/{userID}", userHandler.DeleteUser)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{teamID}", teamHandler.GetTeamByID)
		r.Get("/{teamID}/members", teamHandler.ListMembers)
		r.Get("/{teamID}/standing", standingsHandler.GetTeamStanding)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireLeagueManager)
			r.Post("/", teamHandler.CreateTeam)
			r.Put("/{teamID}", teamHandler.UpdateTeam)
			r.Delete("/{teamID}", teamHandler.DeleteTeam)
			r.Post("/{teamID}/members", teamHandler.AddMember)
			r.Delete("/{teamID}/members/{userID}", teamHandler.RemoveMember)
		})
	})

	router.Route("/seasons", func(r chi.Router) {
		r.Get("/", seasonHandler.ListSeasons)
		r.Get("/active", seasonHandler.GetActiveSeason)
		r.Get("/{seasonID}", seasonHandler.GetSeasonByID)
		r.Get("/{seasonID}/stats", seasonHandler.GetSeasonStats)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireLeagueManager)
			r.Post("/", seasonHandler.CreateSeason)
			r.Put("/{seasonID}", seasonHandler.UpdateSeason)
			r.Post("/{seasonID}/activate", seasonHandler.ActivateSeason)
			r.Post("/{seasonID}/deactivate", seasonHandler.DeactivateSeason)
			r.Post("/{seasonID}/recalculate-standings", standingsHandler.RecalculateStandings)
			r.Delete("/{seasonID}", seasonHandler.DeleteSeason)
		})
	})

	router.Route("/venues", func(r chi.Router) {
		r.Get("/", venueHandler.ListVenues)
		r.Get("/{venueID}", venueHandler.GetVenueByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireLeagueManager)
			r.Post("/", venueHandler.CreateVenue)
			r.Put("/{venueID}", venueHandler.UpdateVenue)
			r.Delete("/{venueID}", venueHandler.DeleteVenue)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/", matchHandler.ListMatches)
		r.Get("/{matchID}", matchHandler.GetMatchByID)
		r.Get("/{matchID}/results", matchHandler.ListResults)

		// Captains score their own matches; the handler checks.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/{matchID}/score", matchHandler.ScoreMatch)
			r.Post("/{matchID}/results", matchHandler.RecordGameResult)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireLeagueManager)
			r.Post("/", matchHandler.CreateMatch)
			r.Put("/{matchID}", matchHandler.UpdateMatch)
			r.Delete("/{matchID}", matchHandler.DeleteMatch)
		})
	})

	router.Route("/standings", func(r chi.Router) {
		r.Get("/", standingsHandler.ListStandings)
		r.Get("/players", standingsHandler.ListPlayerRankings)
		r.Get("/head-to-head/{team1ID}/{team2ID}", standingsHandler.GetHeadToHead)
	})

	router.Route("/invites", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireLeagueManager)
		r.Get("/", inviteHandler.ListInvites)
		r.Post("/", inviteHandler.CreateInvite)
		r.Post("/{inviteID}/resend", inviteHandler.ResendInvite)
		r.Delete("/{inviteID}", inviteHandler.RevokeInvite)
	})

	router.Route("/announcements", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/", announcementHandler.ListAnnouncements)
		r.Get("/{announcementID}", announcementHandler.GetAnnouncementByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireLeagueManager)
			r.Post("/", announcementHandler.CreateAnnouncement)
			r.Put("/{announcementID}", announcementHandler.UpdateAnnouncement)
			r.Delete("/{announcementID}", announcementHandler.DeleteAnnouncement)
		})
	})

	router.Get("/config", configHandler.GetConfig)

	router.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireLeagueManager)
		r.Get("/dashboard", adminHandler.GetDashboard)
		r.Post("/generate-schedule", adminHandler.GenerateSchedule)
		r.Post("/clear-schedule", adminHandler.ClearSchedule)
		r.Get("/audit-logs", adminHandler.ListAuditLogs)
		r.Get("/backups", adminHandler.ListBackups)
		r.Post("/backups", adminHandler.CreateBackup)
	})

	router.Get("/ws/seasons/{seasonID}", webSocketHandler.ServeSeasonFeed)
}
