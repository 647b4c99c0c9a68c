package repository

import (
	"context"

	"github.com/communityarts/raffle-service/internal/models"
	"gorm.io/gorm"
)

type ArtistRepository interface {
	Create(ctx context.Context, artist *models.Artist) error
	FindByID(ctx context.Context, id uint) (*models.Artist, error)
	FindAll(ctx context.Context) ([]models.Artist, error)
	CreateAlias(ctx context.Context, alias *models.ArtistAlias) error
	FindAliases(ctx context.Context, artistID uint) ([]models.ArtistAlias, error)
	ResolveName(ctx context.Context, name string) (*models.Artist, error)
}

type artistRepository struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) Create(ctx context.Context, artist *models.Artist) error {
	return r.db.WithContext(ctx).Create(artist).Error
}

func (r *artistRepository) FindByID(ctx context.Context, id uint) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.WithContext(ctx).First(&artist, id).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *artistRepository) FindAll(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&artists).Error; err != nil {
		return nil, err
	}
	return artists, nil
}

func (r *artistRepository) CreateAlias(ctx context.Context, alias *models.ArtistAlias) error {
	return r.db.WithContext(ctx).Create(alias).Error
}

func (r *artistRepository) FindAliases(ctx context.Context, artistID uint) ([]models.ArtistAlias, error) {
	var aliases []models.ArtistAlias
	err := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("id ASC").
		Find(&aliases).Error
	if err != nil {
		return nil, err
	}
	return aliases, nil
}

// ResolveName maps a free-text name to an artist: exact artist-name match
// first, then the curated alias table. Comparison is case-folded, never
// fuzzy.
func (r *artistRepository) ResolveName(ctx context.Context, name string) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&artist).Error
	if err == nil {
		return &artist, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Joins("JOIN artist_aliases ON artist_aliases.artist_id = artists.id").
		Where("LOWER(artist_aliases.alias) = LOWER(?)", name).
		First(&artist).Error
	if err != nil {
		return nil, err
	}
	return &artist, nil
}
