package migration

import (
	"github.com/wandson/product-ms/internal/config"
	productdomain "github.com/wandson/product-ms/internal/product/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The embedded migration driver is postgres-only; the other
		// dialects the config layer accepts get the schema via GORM.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(&productdomain.Product{})
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
