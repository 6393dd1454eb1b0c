package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wandson/product-ms/pkg/db/pagination"
)

func parsePathID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &invalidParameterError{Name: "id", Value: raw, Kind: "int64"}
	}
	return id, nil
}

func parseOptionalFloat(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &invalidParameterError{Name: name, Value: raw, Kind: "float64"}
	}
	return &parsed, nil
}

func parseOptionalInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &invalidParameterError{Name: name, Value: raw, Kind: "int"}
	}
	return parsed, nil
}

func parsePagination(c *gin.Context) (pagination.Pagination, error) {
	page, err := parseOptionalInt(c, "page", 0)
	if err != nil {
		return pagination.Pagination{}, err
	}
	size, err := parseOptionalInt(c, "size", pagination.DefaultPageSize)
	if err != nil {
		return pagination.Pagination{}, err
	}
	return pagination.Normalize(pagination.Pagination{Page: page, Size: size}), nil
}
