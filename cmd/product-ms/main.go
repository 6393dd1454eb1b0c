package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/wandson/product-ms/internal/config"
	"github.com/wandson/product-ms/internal/migration"
	"github.com/wandson/product-ms/internal/observability"
	"github.com/wandson/product-ms/internal/product"
	"github.com/wandson/product-ms/internal/server"
	"github.com/wandson/product-ms/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		product.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
