package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/platform/objectstore"
)

// UploadKind selects the key prefix of an upload.
type UploadKind string

// Upload kinds. Set images are admin-only.
const (
	UploadEntryImage UploadKind = "entry"
	UploadSetImage   UploadKind = "set"
)

// Presigner issues presigned PUT URLs.
type Presigner interface {
	PresignPut(ctx context.Context, prefix string, owner uuid.UUID, contentType string) (*objectstore.Upload, error)
}

// UploadService hands out presigned upload URLs.
type UploadService interface {
	Presign(ctx context.Context, userID uuid.UUID, kind UploadKind, contentType string) (*objectstore.Upload, error)
}

type uploadService struct {
	presigner Presigner
	logger    *slog.Logger
}

// NewUploadService creates an UploadService. A nil presigner disables
// uploads and every call returns ErrUploadsDisabled.
func NewUploadService(presigner Presigner, logger *slog.Logger) UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &uploadService{
		presigner: presigner,
		logger:    logger.With(slog.String("component", "upload_service")),
	}
}

func (s *uploadService) Presign(ctx context.Context, userID uuid.UUID, kind UploadKind, contentType string) (*objectstore.Upload, error) {
	if s.presigner == nil {
		return nil, ErrUploadsDisabled
	}

	var prefix string
	switch kind {
	case UploadEntryImage:
		prefix = "entries"
	case UploadSetImage:
		prefix = "sets"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidUploadKind, kind)
	}

	upload, err := s.presigner.PresignPut(ctx, prefix, userID, contentType)
	if err != nil {
		if errors.Is(err, objectstore.ErrUnsupportedContentType) {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("presign failed",
			slog.String("error", err.Error()))
		return nil, NewServiceError("upload", "presign", err)
	}
	return upload, nil
}
