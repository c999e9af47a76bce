package settings

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/settings"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// DefaultMaxLogoBytes is used when no logo size limit is configured
const DefaultMaxLogoBytes = 2 << 20

// logoTypes maps accepted sniffed content types to file extensions
var logoTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SettingsService manages the business profile, storefront copy and logo
type SettingsService struct {
	repo         settings.Repository
	productRepo  catalog.ProductRepository
	store        storage.FileStore
	maxLogoBytes int64
	logger       *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.Repository, productRepo catalog.ProductRepository, store storage.FileStore, maxLogoBytes int64, logger *zap.Logger) *SettingsService {
	if maxLogoBytes <= 0 {
		maxLogoBytes = DefaultMaxLogoBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:         repo,
		productRepo:  productRepo,
		store:        store,
		maxLogoBytes: maxLogoBytes,
		logger:       logger,
	}
}

// MaxLogoBytes is the largest logo accepted
func (s *SettingsService) MaxLogoBytes() int64 {
	return s.maxLogoBytes
}

// GetSettings returns the business profile, seeding defaults on first use
func (s *SettingsService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	cfg, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	response := ToSettingsResponse(cfg)
	return &response, nil
}

// UpdateSettings replaces the business profile. The logo is left alone.
func (s *SettingsService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	cfg, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Update(req.BusinessName, req.Address, req.Phone, req.Email, req.TaxNumber, req.Currency, req.ReceiptFooter, req.DefaultTaxRate); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSettings(ctx, cfg); err != nil {
		return nil, err
	}
	response := ToSettingsResponse(cfg)
	return &response, nil
}

// UploadLogo stores a new logo under a fixed name and records its URL.
// The content type is sniffed from the bytes; the client's claim is ignored.
func (s *SettingsService) UploadLogo(ctx context.Context, data []byte) (*LogoResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewInvalidInputError("Logo file is empty")
	}
	if int64(len(data)) > s.maxLogoBytes {
		return nil, shared.NewInvalidInputError(fmt.Sprintf("Logo cannot exceed %d bytes", s.maxLogoBytes))
	}

	contentType := http.DetectContentType(data)
	ext, ok := logoTypes[contentType]
	if !ok {
		return nil, shared.NewInvalidInputError("Logo must be a PNG, JPEG, GIF or WebP image")
	}

	url, err := s.store.Put(ctx, "logo"+ext, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}
	// cache-bust so browsers pick up a replaced file with the same name
	url = fmt.Sprintf("%s?v=%d", url, time.Now().Unix())

	if err := s.repo.UpdateLogoURL(ctx, url); err != nil {
		return nil, err
	}
	s.removeStaleLogos(ctx, ext)
	s.logger.Info("Logo updated", zap.String("content_type", contentType), zap.Int("bytes", len(data)))
	return &LogoResponse{LogoURL: url}, nil
}

// removeStaleLogos deletes logos saved earlier under another extension.
// A failure leaves an orphaned file, so it is only logged.
func (s *SettingsService) removeStaleLogos(ctx context.Context, keep string) {
	exts := make([]string, 0, len(logoTypes))
	for _, e := range logoTypes {
		if e != keep {
			exts = append(exts, e)
		}
	}
	sort.Strings(exts)
	for _, e := range exts {
		if err := s.store.Delete(ctx, "logo"+e); err != nil {
			s.logger.Warn("Failed to remove previous logo", zap.String("name", "logo"+e), zap.Error(err))
		}
	}
}

// GetShopContent returns the storefront copy, seeding defaults on first use
func (s *SettingsService) GetShopContent(ctx context.Context) (*ShopContentResponse, error) {
	content, err := s.repo.GetShopContent(ctx)
	if err != nil {
		return nil, err
	}
	response := ToShopContentResponse(content)
	return &response, nil
}

// UpdateShopContent replaces the storefront copy. Featured ids must name existing products.
func (s *SettingsService) UpdateShopContent(ctx context.Context, req UpdateShopContentRequest) (*ShopContentResponse, error) {
	content, err := s.repo.GetShopContent(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ensureProductsExist(ctx, req.FeaturedProductIDs); err != nil {
		return nil, err
	}
	if err := content.SetFeaturedIDs(req.FeaturedProductIDs); err != nil {
		return nil, err
	}

	content.HeroTitle = strings.TrimSpace(req.HeroTitle)
	content.HeroSubtitle = strings.TrimSpace(req.HeroSubtitle)
	content.HeroImageURL = strings.TrimSpace(req.HeroImageURL)
	content.HeroCTAText = strings.TrimSpace(req.HeroCTAText)
	content.HeroCTALink = strings.TrimSpace(req.HeroCTALink)
	content.PromoTitle = strings.TrimSpace(req.PromoTitle)
	content.PromoText = strings.TrimSpace(req.PromoText)
	content.PromoImageURL = strings.TrimSpace(req.PromoImageURL)
	content.PromoActive = req.PromoActive
	content.UpdatedAt = time.Now()

	if err := s.repo.SaveShopContent(ctx, content); err != nil {
		return nil, err
	}
	response := ToShopContentResponse(content)
	return &response, nil
}

func (s *SettingsService) ensureProductsExist(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return shared.NewInvalidInputError(fmt.Sprintf("Featured product %s does not exist", id))
		}
	}
	return nil
}
