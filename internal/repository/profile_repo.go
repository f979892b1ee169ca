package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jsu-events/drinktally-api/internal/models"
)

// ProfileRepository persists user profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	FindByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	FindByID(ctx context.Context, id string) (*models.UserProfile, error)
}

// RoleRepository persists the authoritative per-user role records.
type RoleRepository interface {
	Create(ctx context.Context, role *models.UserRole) error
	FindByUserID(ctx context.Context, userID string) (*models.UserRole, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs the profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository constructs the role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *models.UserRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) FindByUserID(ctx context.Context, userID string) (*models.UserRole, error) {
	var role models.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
