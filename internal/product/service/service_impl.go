package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wandson/product-ms/internal/product/domain"
	"github.com/wandson/product-ms/pkg/db"
	"github.com/wandson/product-ms/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

// createIDRetries bounds how often Create regenerates an id after a
// unique-constraint violation.
const createIDRetries = 3

func (s *Service) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 1; ; attempt++ {
		p.ID = s.genID.Generate().Int64()
		err := s.repo.Insert(ctx, s.db, p)
		if err == nil {
			return p, nil
		}
		if !db.IsDuplicateKeyErr(err) || attempt == createIDRetries {
			return nil, err
		}
		s.log.Warn("id already taken, regenerating", zap.Int64("id", p.ID), zap.Int("attempt", attempt))
	}
}

// Update is a full replace of the mutable fields. The id and creation time
// are never overwritten.
func (s *Service) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Description = strings.TrimSpace(in.Description)
	item.Price = in.Price
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.NotFoundError{ID: id}
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Product{}
	}
	return items, nil
}

func (s *Service) Search(ctx context.Context, filter domain.SearchFilter, page pagination.Pagination) (*pagination.Page[domain.Product], error) {
	page = pagination.Normalize(page)

	items, total, err := s.repo.Search(ctx, s.db, filter, page)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.DeleteByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{ID: id}
	}
	return nil
}
