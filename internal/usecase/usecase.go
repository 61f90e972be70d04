package usecase

import (
	"context"

	"github.com/vismatch/go-backend/internal/domain"
)

type SearchUC interface {
	SearchByFile(ctx context.Context, req *SearchByFileReq) (*SearchRes, error)
	SearchByURL(ctx context.Context, req *SearchByURLReq) (*SearchRes, error)
	Session() domain.Session
}

type CatalogBuildUC interface {
	BuildCatalog(ctx context.Context, req *BuildCatalogReq) (*BuildCatalogRes, error)
}
