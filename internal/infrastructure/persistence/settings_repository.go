package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/retailpos/backend/internal/domain/settings"
	"gorm.io/gorm"
)

// GormSettingsRepository persists the single-row app_settings and shop_content tables
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// GetSettings returns the settings row, seeding the defaults on first access
func (r *GormSettingsRepository) GetSettings(ctx context.Context) (*settings.AppSettings, error) {
	var s settings.AppSettings
	if err := r.firstOrSeed(ctx, &s, settings.DefaultAppSettings()); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings writes the settings row
func (r *GormSettingsRepository) SaveSettings(ctx context.Context, s *settings.AppSettings) error {
	s.ID = settings.SingletonID
	return r.db.WithContext(ctx).Save(s).Error
}

// UpdateLogoURL points the settings row at a new logo
func (r *GormSettingsRepository) UpdateLogoURL(ctx context.Context, url string) error {
	if _, err := r.GetSettings(ctx); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&settings.AppSettings{}).
		Where("id = ?", settings.SingletonID).
		Updates(map[string]any{"logo_url": url, "updated_at": time.Now()}).Error
}

// GetShopContent returns the storefront content row, seeding the defaults on first access
func (r *GormSettingsRepository) GetShopContent(ctx context.Context) (*settings.ShopContent, error) {
	var c settings.ShopContent
	if err := r.firstOrSeed(ctx, &c, settings.DefaultShopContent()); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveShopContent writes the storefront content row
func (r *GormSettingsRepository) SaveShopContent(ctx context.Context, c *settings.ShopContent) error {
	c.ID = settings.SingletonID
	return r.db.WithContext(ctx).Save(c).Error
}

// firstOrSeed loads row id 1 or inserts defaults. A concurrent first access
// can lose the insert race, in which case the winner's row is read back.
func (r *GormSettingsRepository) firstOrSeed(ctx context.Context, dest, defaults any) error {
	db := r.db.WithContext(ctx)
	err := db.Where("id = ?", settings.SingletonID).Attrs(defaults).FirstOrCreate(dest).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return db.First(dest, "id = ?", settings.SingletonID).Error
}

// Ensure GormSettingsRepository implements settings.Repository
var _ settings.Repository = (*GormSettingsRepository)(nil)
