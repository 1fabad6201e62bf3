package services

import (
	"context"
	"strings"

	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/repositories"
)

type VenueInput struct {
	Name       string  `json:"name"`
	Address    *string `json:"address,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	TableCount int     `json:"table_count"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

type VenueService interface {
	Create(ctx context.Context, input VenueInput) (*models.Venue, error)
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Venue, error)
	Update(ctx context.Context, id int, input VenueInput) (*models.Venue, error)
	Delete(ctx context.Context, id int) error
}

type venueService struct {
	venueRepo repositories.VenueRepository
}

func NewVenueService(venueRepo repositories.VenueRepository) VenueService {
	return &venueService{venueRepo: venueRepo}
}

func (s *venueService) Create(ctx context.Context, input VenueInput) (*models.Venue, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrVenueNameRequired
	}

	venue := &models.Venue{
		Name:       input.Name,
		Address:    input.Address,
		Phone:      input.Phone,
		TableCount: input.TableCount,
		IsActive:   true,
	}
	if input.IsActive != nil {
		venue.IsActive = *input.IsActive
	}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *venueService) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	return venue, mapRepoNotFound(err)
}

func (s *venueService) List(ctx context.Context, activeOnly bool) ([]*models.Venue, error) {
	return s.venueRepo.List(ctx, activeOnly)
}

func (s *venueService) Update(ctx context.Context, id int, input VenueInput) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		venue.Name = name
	}
	if input.Address != nil {
		venue.Address = input.Address
	}
	if input.Phone != nil {
		venue.Phone = input.Phone
	}
	if input.TableCount > 0 {
		venue.TableCount = input.TableCount
	}
	if input.IsActive != nil {
		venue.IsActive = *input.IsActive
	}

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, mapRepoNotFound(err)
	}
	return venue, nil
}

func (s *venueService) Delete(ctx context.Context, id int) error {
	return mapRepoNotFound(s.venueRepo.Delete(ctx, id))
}
