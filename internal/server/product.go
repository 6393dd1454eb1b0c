package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/wandson/product-ms/internal/product/domain"
)

type productInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
}

// decodeJSON decodes the request body strictly so the error-translation
// layer can distinguish syntax errors, wrong-typed values and unknown
// properties.
func decodeJSON(c *gin.Context, out any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// validateProductInput returns one violation per invalid field, in field
// order. Invalid input never reaches the service layer.
func validateProductInput(in productInput) []Field {
	var fields []Field
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, Field{Name: "name", UserMessage: "must not be blank"})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, Field{Name: "description", UserMessage: "must not be blank"})
	}
	if in.Price == nil || *in.Price <= 0 {
		fields = append(fields, Field{Name: "price", UserMessage: "must be greater than 0"})
	}
	return fields
}

func (in productInput) toDomain() productdomain.ProductInput {
	var price float64
	if in.Price != nil {
		price = *in.Price
	}
	return productdomain.ProductInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       price,
	}
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productInput
	if err := decodeJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}
	if fields := validateProductInput(req); len(fields) > 0 {
		AbortWithError(c, &invalidDataError{Fields: fields})
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, resp.ID))
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req productInput
	if err := decodeJSON(c, &req); err != nil {
		AbortWithError(c, err)
		return
	}
	if fields := validateProductInput(req); len(fields) > 0 {
		AbortWithError(c, &invalidDataError{Fields: fields})
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetProductByID(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListProducts(c *gin.Context) {
	resp, err := s.productSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) SearchProducts(c *gin.Context) {
	minPrice, err := parseOptionalFloat(c, "min_price")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	maxPrice, err := parseOptionalFloat(c, "max_price")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	page, err := parsePagination(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filter := productdomain.SearchFilter{
		Q:        strings.TrimSpace(c.Query("q")),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	resp, err := s.productSvc.Search(c.Request.Context(), filter, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.productSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
