package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vismatch/go-backend/internal/domain"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
)

type fakeRecognition struct {
	uploadImage    func(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	uploadImageURL func(ctx context.Context, req *UploadImageURLReq) (*UploadImageRes, error)
	findSimilar    func(ctx context.Context, req *FindSimilarReq) (*FindSimilarRes, error)
	forward        func(ctx context.Context, req *ForwardReq) (*ForwardRes, error)
}

func (f *fakeRecognition) UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	return f.uploadImage(ctx, req)
}

func (f *fakeRecognition) UploadImageURL(ctx context.Context, req *UploadImageURLReq) (*UploadImageRes, error) {
	return f.uploadImageURL(ctx, req)
}

func (f *fakeRecognition) FindSimilar(ctx context.Context, req *FindSimilarReq) (*FindSimilarRes, error) {
	return f.findSimilar(ctx, req)
}

func (f *fakeRecognition) Forward(ctx context.Context, req *ForwardReq) (*ForwardRes, error) {
	return f.forward(ctx, req)
}

type fakeCatalogRepo struct {
	entries map[string]domain.CatalogEntry
}

func (f *fakeCatalogRepo) GetByUploadID(uploadID string) (*domain.CatalogEntry, bool) {
	entry, ok := f.entries[uploadID]
	if !ok {
		return nil, false
	}
	return &entry, true
}

func (f *fakeCatalogRepo) All() []domain.CatalogEntry {
	all := make([]domain.CatalogEntry, 0, len(f.entries))
	for _, entry := range f.entries {
		all = append(all, entry)
	}
	return all
}

func happyRecognition(uploadID string, matches []domain.SimilarityMatch) *fakeRecognition {
	return &fakeRecognition{
		uploadImage: func(_ context.Context, _ *UploadImageReq) (*UploadImageRes, error) {
			return NewUploadImageRes(uploadID), nil
		},
		uploadImageURL: func(_ context.Context, _ *UploadImageURLReq) (*UploadImageRes, error) {
			return NewUploadImageRes(uploadID), nil
		},
		findSimilar: func(_ context.Context, _ *FindSimilarReq) (*FindSimilarRes, error) {
			return NewFindSimilarRes(matches), nil
		},
	}
}

func TestSearchByFile_MapsMatchesInUpstreamOrder(t *testing.T) {
	matches := []domain.SimilarityMatch{
		{ImageID: "upload-x", Distance: 10},
		{ImageID: "upload-y", Distance: 90},
	}
	catalog := &fakeCatalogRepo{entries: map[string]domain.CatalogEntry{
		"upload-x": {ID: 7, Name: "Red Sneakers", Category: "Shoes", Price: "49.99", Rating: "4.5", UploadID: "upload-x"},
	}}

	uc := NewSearchUC(happyRecognition("u1", matches), catalog, 50, logger.NewSlogLogger())

	res, err := uc.SearchByFile(context.Background(), NewSearchByFileReq([]byte{0xFF, 0xD8}, "image/jpeg", "query.jpg"))

	require.NoError(t, err)
	require.Len(t, res.Products, 2)

	assert.Equal(t, int64(7), res.Products[0].ID)
	assert.Equal(t, "Red Sneakers", res.Products[0].Name)
	assert.InDelta(t, 0.9, res.Products[0].Similarity, 1e-9)

	// Совпадение без записи в каталоге получает карточку-заглушку
	assert.Equal(t, int64(1), res.Products[1].ID)
	assert.Equal(t, "Unknown Product 2", res.Products[1].Name)
	assert.Equal(t, domain.UnknownCategory, res.Products[1].Category)
	assert.Equal(t, domain.NotAvailableMark, res.Products[1].Price)
	assert.Equal(t, domain.NotAvailableMark, res.Products[1].Rating)
	assert.InDelta(t, 0.1, res.Products[1].Similarity, 1e-9)

	session := uc.Session()
	assert.Equal(t, domain.StateSuccess, session.State)
	assert.Equal(t, res.Products, session.Results)
}

func TestSearchByFile_RejectsNonImageWithoutStateChange(t *testing.T) {
	recognition := &fakeRecognition{
		uploadImage: func(_ context.Context, _ *UploadImageReq) (*UploadImageRes, error) {
			t.Fatal("сетевой вызов для не-изображения недопустим")
			return nil, nil
		},
	}
	uc := NewSearchUC(recognition, &fakeCatalogRepo{}, 50, logger.NewSlogLogger())

	_, err := uc.SearchByFile(context.Background(), NewSearchByFileReq([]byte("%PDF-1.4"), "application/pdf", "doc.pdf"))

	assert.ErrorIs(t, err, e.ErrNotAnImage)
	assert.Equal(t, domain.StateIdle, uc.Session().State)
}

func TestSearchByURL_RejectsBlankURLWithoutStateChange(t *testing.T) {
	uc := NewSearchUC(&fakeRecognition{}, &fakeCatalogRepo{}, 50, logger.NewSlogLogger())

	for _, url := range []string{"", "   ", "\t\n"} {
		_, err := uc.SearchByURL(context.Background(), NewSearchByURLReq(url))

		assert.ErrorIs(t, err, e.ErrEmptyImageURL)
		assert.Equal(t, domain.StateIdle, uc.Session().State)
	}
}

func TestSearchByURL_UpstreamErrorMessagePreservedVerbatim(t *testing.T) {
	recognition := &fakeRecognition{
		uploadImageURL: func(_ context.Context, _ *UploadImageURLReq) (*UploadImageRes, error) {
			return NewUploadImageRes("u1"), nil
		},
		findSimilar: func(_ context.Context, _ *FindSimilarReq) (*FindSimilarRes, error) {
			return nil, e.NewUpstreamError("quota exceeded")
		},
	}
	uc := NewSearchUC(recognition, &fakeCatalogRepo{}, 50, logger.NewSlogLogger())

	_, err := uc.SearchByURL(context.Background(), NewSearchByURLReq("https://example.com/shoe.jpg"))

	require.Error(t, err)

	session := uc.Session()
	assert.Equal(t, domain.StateError, session.State)
	assert.Equal(t, "quota exceeded", session.Message)
}

func TestSearchByFile_TransportErrorFailsSession(t *testing.T) {
	recognition := &fakeRecognition{
		uploadImage: func(_ context.Context, _ *UploadImageReq) (*UploadImageRes, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	uc := NewSearchUC(recognition, &fakeCatalogRepo{}, 50, logger.NewSlogLogger())

	_, err := uc.SearchByFile(context.Background(), NewSearchByFileReq([]byte{0xFF}, "image/png", "a.png"))

	require.Error(t, err)

	session := uc.Session()
	assert.Equal(t, domain.StateError, session.State)
	assert.Equal(t, "dial tcp: connection refused", session.Message)
}

func TestSearchByFile_SecondSearchRejectedWhileFirstInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	recognition := &fakeRecognition{
		uploadImage: func(_ context.Context, _ *UploadImageReq) (*UploadImageRes, error) {
			close(started)
			<-release
			return NewUploadImageRes("u1"), nil
		},
		findSimilar: func(_ context.Context, _ *FindSimilarReq) (*FindSimilarRes, error) {
			return NewFindSimilarRes(nil), nil
		},
	}
	uc := NewSearchUC(recognition, &fakeCatalogRepo{}, 50, logger.NewSlogLogger())

	done := make(chan error, 1)
	go func() {
		_, err := uc.SearchByFile(context.Background(), NewSearchByFileReq([]byte{0xFF}, "image/png", "first.png"))
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("первый поиск не стартовал")
	}

	assert.Equal(t, domain.StateLoading, uc.Session().State)

	_, err := uc.SearchByFile(context.Background(), NewSearchByFileReq([]byte{0xFF}, "image/png", "second.png"))
	assert.ErrorIs(t, err, e.ErrSearchInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, domain.StateSuccess, uc.Session().State)
}

func TestSearchByFile_PassesConfiguredLimit(t *testing.T) {
	var gotLimit int
	recognition := &fakeRecognition{
		uploadImage: func(_ context.Context, _ *UploadImageReq) (*UploadImageRes, error) {
			return NewUploadImageRes("u1"), nil
		},
		findSimilar: func(_ context.Context, req *FindSimilarReq) (*FindSimilarRes, error) {
			gotLimit = req.Limit
			return NewFindSimilarRes(nil), nil
		},
	}
	uc := NewSearchUC(recognition, &fakeCatalogRepo{}, 25, logger.NewSlogLogger())

	_, err := uc.SearchByFile(context.Background(), NewSearchByFileReq([]byte{0xFF}, "image/gif", "a.gif"))

	require.NoError(t, err)
	assert.Equal(t, 25, gotLimit)
}
