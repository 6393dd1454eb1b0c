package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wandson/product-ms/internal/config"
)

func TestLoadConfigDefaultsServiceName(t *testing.T) {
	cfg := LoadConfig(config.Config{AppName: "  "})
	assert.Equal(t, "product-ms", cfg.ServiceName)

	cfg = LoadConfig(config.Config{AppName: "catalog"})
	assert.Equal(t, "catalog", cfg.ServiceName)
}

func TestDebugOffOnlyInProduction(t *testing.T) {
	assert.False(t, Config{Environment: "production"}.Debug())
	assert.True(t, Config{Environment: "development"}.Debug())
	assert.True(t, Config{Environment: ""}.Debug())
}
