package service

import (
	"fmt"

	"github.com/xela07ax/intellibridge-console/internal/domain"
	"github.com/xela07ax/intellibridge-console/internal/fixtures"
)

// MigrationView — оценка миграции вместе с производной серией графика трудозатрат.
type MigrationView struct {
	domain.MigrationEstimator
	Effort []domain.EffortPoint `json:"effort"`
}

// CatalogService отдает статические страницы без состояния.
type CatalogService struct {
	catalog *fixtures.Catalog
}

func NewCatalogService(catalog *fixtures.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) User() domain.User { return s.catalog.User }

func (s *CatalogService) Dashboard() domain.Dashboard { return s.catalog.Dashboard }

func (s *CatalogService) Migration() MigrationView {
	m := s.catalog.MigrationEstimator
	return MigrationView{MigrationEstimator: m, Effort: m.EffortSeries()}
}

func (s *CatalogService) Reports() domain.Reports { return s.catalog.Reports }

func (s *CatalogService) Snippet(id string) (domain.Snippet, error) {
	sn, ok := s.catalog.Snippet(id)
	if !ok {
		return domain.Snippet{}, fmt.Errorf("%w: %q", ErrUnknownSnippet, id)
	}
	return sn, nil
}
