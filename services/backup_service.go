package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
	"github.com/rackline/pool-league-system/storage"
)

// BackupSnapshot is the portable JSON export of one season: the season
// row plus everything needed to rebuild its standings elsewhere.
type BackupSnapshot struct {
	CreatedAt time.Time          `json:"created_at"`
	Season    *models.Season     `json:"season"`
	Teams     []*models.Team     `json:"teams"`
	Matches   []*models.Match    `json:"matches"`
	Standings []*models.Standing `json:"standings"`
	Players   []*models.User     `json:"players"`
}

type BackupResult struct {
	Key       string    `json:"key"`
	LocalPath string    `json:"local_path,omitempty"`
	URL       string    `json:"url,omitempty"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupFile describes one snapshot present in the local backup
// directory.
type BackupFile struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService exports a season snapshot to the local backup
// directory and, when an uploader is configured, to object storage.
type BackupService interface {
	CreateSeasonBackup(ctx context.Context, seasonID int) (*BackupResult, error)
	ListBackups(ctx context.Context) ([]*BackupFile, error)
}

type backupService struct {
	seasonRepo   repositories.SeasonRepository
	teamRepo     repositories.TeamRepository
	matchRepo    repositories.MatchRepository
	standingRepo repositories.StandingRepository
	userRepo     repositories.UserRepository
	uploader     storage.FileUploader
	backupDir    string
	logger       *slog.Logger
}

func NewBackupService(
	seasonRepo repositories.SeasonRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	backupDir string,
	logger *slog.Logger,
) BackupService {
	return &backupService{
		seasonRepo:   seasonRepo,
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		standingRepo: standingRepo,
		userRepo:     userRepo,
		uploader:     uploader,
		backupDir:    backupDir,
		logger:       logger,
	}
}

func (s *backupService) CreateSeasonBackup(ctx context.Context, seasonID int) (*BackupResult, error) {
	season, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	snapshot := &BackupSnapshot{
		CreatedAt: time.Now().UTC(),
		Season:    season,
	}

	// The four collections are independent reads.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gErr error
		snapshot.Teams, gErr = s.teamRepo.ListBySeason(gctx, seasonID)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		snapshot.Matches, gErr = s.matchRepo.ListCompletedBySeason(gctx, nil, seasonID)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		snapshot.Standings, gErr = s.standingRepo.ListBySeason(gctx, nil, seasonID)
		return gErr
	})
	g.Go(func() error {
		players, gErr := s.userRepo.List(gctx, nil, nil)
		if gErr != nil {
			return gErr
		}
		for _, player := range players {
			player.PasswordHash = ""
		}
		snapshot.Players = players
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect backup data: %w", err)
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	key := fmt.Sprintf("backups/season_%d_%s.json", seasonID, snapshot.CreatedAt.Format("20060102T150405Z"))
	result := &BackupResult{
		Key:       key,
		SizeBytes: len(payload),
		CreatedAt: snapshot.CreatedAt,
	}

	if s.backupDir != "" {
		if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}
		localPath := filepath.Join(s.backupDir, filepath.Base(key))
		if err := os.WriteFile(localPath, payload, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write backup file: %w", err)
		}
		result.LocalPath = localPath
	}

	if s.uploader != nil {
		uploaded, upErr := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
		if upErr != nil {
			// The local copy already exists, report but do not fail.
			s.logger.Warn("failed to upload backup", slog.String("key", key), slog.Any("error", upErr))
		} else {
			result.URL = uploaded.Location
		}
	}

	s.logger.Info("season backup created",
		slog.Int("season_id", seasonID),
		slog.String("key", key),
		slog.Int("size_bytes", result.SizeBytes),
	)
	return result, nil
}

// ListBackups returns the local snapshots, newest first. Only files
// matching the season backup naming are reported.
func (s *backupService) ListBackups(_ context.Context) ([]*BackupFile, error) {
	if s.backupDir == "" {
		return []*BackupFile{}, nil
	}
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*BackupFile{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	files := make([]*BackupFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "season_") || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, &BackupFile{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })
	return files, nil
}
