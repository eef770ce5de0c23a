package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/objectstore"
)

type fakePresigner struct {
	prefix string
	err    error
}

func (p *fakePresigner) PresignPut(_ context.Context, prefix string, owner uuid.UUID, contentType string) (*objectstore.Upload, error) {
	p.prefix = prefix
	if p.err != nil {
		return nil, p.err
	}
	return &objectstore.Upload{Key: prefix + "/" + owner.String() + "/x.jpg", Method: "PUT"}, nil
}

func TestUploadService_Presign(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		kind       UploadKind
		err        error
		wantPrefix string
		wantErr    error
	}{
		{"entry image", UploadEntryImage, nil, "entries", nil},
		{"set image", UploadSetImage, nil, "sets", nil},
		{"unknown kind", UploadKind("avatar"), nil, "", ErrInvalidUploadKind},
		{"unsupported type", UploadEntryImage, objectstore.ErrUnsupportedContentType, "entries", domain.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &fakePresigner{err: tc.err}
			svc := NewUploadService(p, nil)

			upload, err := svc.Presign(context.Background(), userID, tc.kind, "image/jpeg")
			assert.Equal(t, tc.wantPrefix, p.prefix)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "PUT", upload.Method)
		})
	}
}

func TestUploadService_Failures(t *testing.T) {
	_, err := NewUploadService(nil, nil).Presign(context.Background(), uuid.New(), UploadEntryImage, "image/png")
	assert.ErrorIs(t, err, ErrUploadsDisabled)

	svc := NewUploadService(&fakePresigner{err: errors.New("no credentials")}, nil)
	_, err = svc.Presign(context.Background(), uuid.New(), UploadEntryImage, "image/png")
	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "presign", serr.Op)
}
