package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	productdomain "github.com/wandson/product-ms/internal/product/domain"
)

func TestMapErrorNotFound(t *testing.T) {
	status, problem := mapError(&productdomain.NotFoundError{ID: 42})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, problemResourceNotFound.URI, problem.Type)
	assert.Equal(t, "There is no product registration with id 42", problem.Detail)
	assert.Equal(t, problem.Detail, problem.UserMessage)
}

func TestMapErrorRouteNotFound(t *testing.T) {
	status, problem := mapError(&routeNotFoundError{Path: "/nope"})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, problemResourceNotFound.URI, problem.Type)
	assert.Equal(t, "Resource /nope you tried to access is non-existent.", problem.Detail)
	assert.Equal(t, genericUserMessage, problem.UserMessage)
}

func TestMapErrorInvalidData(t *testing.T) {
	fields := []Field{{Name: "name", UserMessage: "must not be blank"}}
	status, problem := mapError(&invalidDataError{Fields: fields})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, problemInvalidData.URI, problem.Type)
	assert.Equal(t, "One or more fields are invalid. Fill in correctly and try again.", problem.Detail)
	assert.Equal(t, problem.Detail, problem.UserMessage)
	assert.Equal(t, fields, problem.Fields)
}

func TestMapErrorInvalidParameter(t *testing.T) {
	status, problem := mapError(&invalidParameterError{Name: "id", Value: "abc", Kind: "int64"})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, problemInvalidParameter.URI, problem.Type)
	assert.Equal(t,
		"URL parameter 'id' received value 'abc', which is of an invalid type. Correct and enter a value compatible with type int64.",
		problem.Detail)
}

func TestMapErrorUnmarshalType(t *testing.T) {
	err := &json.UnmarshalTypeError{Field: "price", Value: "string", Type: reflect.TypeOf(float64(0))}
	status, problem := mapError(err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, problemIncomprehensibleMessage.URI, problem.Type)
	assert.Equal(t,
		"The property 'price' has been given the value 'string', which is an invalid type. Correct and enter a value compatible with type float64.",
		problem.Detail)
}

func TestMapErrorUnknownField(t *testing.T) {
	status, problem := mapError(errors.New(`json: unknown field "sku"`))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, problemIncomprehensibleMessage.URI, problem.Type)
	assert.Equal(t, "Property 'sku' does not exist. Correct or remove this property and try again.", problem.Detail)
}

func TestMapErrorBodySyntax(t *testing.T) {
	for _, err := range []error{&json.SyntaxError{}, io.EOF, io.ErrUnexpectedEOF} {
		status, problem := mapError(err)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, problemIncomprehensibleMessage.URI, problem.Type)
		assert.Equal(t, "The request body is invalid. Check syntax error.", problem.Detail)
	}
}

func TestMapErrorDefaultHidesCause(t *testing.T) {
	status, problem := mapError(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, problemSystemError.URI, problem.Type)
	assert.Equal(t, genericUserMessage, problem.Detail)
	assert.Equal(t, genericUserMessage, problem.UserMessage)
	assert.NotContains(t, problem.Detail, "connection refused")
}

func TestUnknownFieldName(t *testing.T) {
	assert.Equal(t, "sku", unknownFieldName(errors.New(`json: unknown field "sku"`)))
	assert.Empty(t, unknownFieldName(errors.New("some other error")))
	assert.Empty(t, unknownFieldName(nil))
}
