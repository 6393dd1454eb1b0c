package product

import (
	"github.com/wandson/product-ms/internal/product/repository"
	"github.com/wandson/product-ms/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
