package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulse/backend/internal/domain/identity"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
)

// AllowedLogoContentTypes is the whitelist of content types accepted for logo
// uploads. SVG is excluded because it can carry scripts.
var AllowedLogoContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectStorageService defines the interface for object storage operations.
// It is implemented by the infrastructure layer (S3 or compatible stores).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// LogoServiceConfig holds configuration for the logo service
type LogoServiceConfig struct {
	// UploadURLExpiry is the duration for which upload URLs are valid
	UploadURLExpiry time.Duration
	// PublicBaseURL is the base URL under which uploaded objects are served
	PublicBaseURL string
}

// DefaultLogoServiceConfig returns the default configuration
func DefaultLogoServiceConfig() LogoServiceConfig {
	return LogoServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
	}
}

// LogoUploadDTO is the response for an initiated logo upload
type LogoUploadDTO struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// LogoService issues presigned upload URLs for tenant and client logos and
// records the resulting logo URL once the upload is confirmed.
type LogoService struct {
	tenantRepo identity.TenantRepository
	clientRepo portfolio.ClientRepository
	storage    ObjectStorageService
	config     LogoServiceConfig
	logger     *zap.Logger
}

// NewLogoService creates a new logo service
func NewLogoService(
	tenantRepo identity.TenantRepository,
	clientRepo portfolio.ClientRepository,
	storage ObjectStorageService,
	config LogoServiceConfig,
	logger *zap.Logger,
) *LogoService {
	if config.UploadURLExpiry == 0 {
		config.UploadURLExpiry = DefaultLogoServiceConfig().UploadURLExpiry
	}
	return &LogoService{
		tenantRepo: tenantRepo,
		clientRepo: clientRepo,
		storage:    storage,
		config:     config,
		logger:     logger,
	}
}

// InitiateTenantLogoUpload returns a presigned URL for uploading a tenant logo
func (s *LogoService) InitiateTenantLogoUpload(ctx context.Context, tenantID uuid.UUID, contentType string) (*LogoUploadDTO, error) {
	ext, ok := AllowedLogoContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "Logo must be a JPEG, PNG, GIF or WebP image")
	}

	if _, err := s.tenantRepo.FindByID(ctx, tenantID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return nil, err
	}

	key := tenantLogoKey(tenantID, ext)
	return s.presign(ctx, key, contentType)
}

// ConfirmTenantLogoUpload verifies the uploaded object and records its URL
func (s *LogoService) ConfirmTenantLogoUpload(ctx context.Context, tenantID uuid.UUID, storageKey string) (string, error) {
	if !strings.HasPrefix(storageKey, tenantKeyPrefix(tenantID)) {
		return "", shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this tenant")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
		}
		return "", err
	}

	url, err := s.verifyAndResolve(ctx, storageKey)
	if err != nil {
		return "", err
	}

	if err := tenant.SetLogoURL(url); err != nil {
		return "", err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant logo", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to save logo")
	}

	s.logger.Info("Tenant logo updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("storage_key", storageKey),
	)
	return url, nil
}

// InitiateClientLogoUpload returns a presigned URL for uploading a client logo
func (s *LogoService) InitiateClientLogoUpload(ctx context.Context, tenantID, clientID uuid.UUID, contentType string) (*LogoUploadDTO, error) {
	ext, ok := AllowedLogoContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "Logo must be a JPEG, PNG, GIF or WebP image")
	}

	if _, err := s.clientRepo.FindByID(ctx, tenantID, clientID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}

	key := clientLogoKey(tenantID, clientID, ext)
	return s.presign(ctx, key, contentType)
}

// ConfirmClientLogoUpload verifies the uploaded object and records its URL
func (s *LogoService) ConfirmClientLogoUpload(ctx context.Context, tenantID, clientID uuid.UUID, storageKey string) (string, error) {
	if !strings.HasPrefix(storageKey, tenantKeyPrefix(tenantID)) {
		return "", shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this tenant")
	}

	client, err := s.clientRepo.FindByID(ctx, tenantID, clientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return "", err
	}

	url, err := s.verifyAndResolve(ctx, storageKey)
	if err != nil {
		return "", err
	}

	if err := client.SetLogoURL(url); err != nil {
		return "", err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		s.logger.Error("Failed to save client logo", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to save logo")
	}

	s.logger.Info("Client logo updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("storage_key", storageKey),
	)
	return url, nil
}

func (s *LogoService) presign(ctx context.Context, key, contentType string) (*LogoUploadDTO, error) {
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate upload URL")
	}
	return &LogoUploadDTO{
		StorageKey: key,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// verifyAndResolve checks the object exists and returns its serving URL
func (s *LogoService) verifyAndResolve(ctx context.Context, storageKey string) (string, error) {
	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		s.logger.Error("Failed to check uploaded object", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to verify upload")
	}
	if !exists {
		return "", shared.NewDomainError("UPLOAD_NOT_FOUND", "Uploaded file was not found in storage")
	}

	if s.config.PublicBaseURL != "" {
		return strings.TrimRight(s.config.PublicBaseURL, "/") + "/" + storageKey, nil
	}

	// Without a public base URL, fall back to a long-lived download link.
	url, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, 7*24*time.Hour)
	if err != nil {
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve logo URL")
	}
	return url, nil
}

func tenantKeyPrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenants/%s/", tenantID)
}

func tenantLogoKey(tenantID uuid.UUID, ext string) string {
	return fmt.Sprintf("tenants/%s/logos/%s%s", tenantID, uuid.New(), ext)
}

func clientLogoKey(tenantID, clientID uuid.UUID, ext string) string {
	return fmt.Sprintf("tenants/%s/clients/%s/logos/%s%s", tenantID, clientID, uuid.New(), ext)
}
