package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	productdomain "github.com/wandson/product-ms/internal/product/domain"
	"go.uber.org/zap"
)

const problemContentType = "application/problem+json"

const problemTypeBaseURI = "https://product-ms.com.br"

const genericUserMessage = "An unexpected internal system error has occurred. " +
	"Please try again and if the problem persists, contact your system administrator."

type problemType struct {
	URI   string
	Title string
}

func newProblemType(path, title string) problemType {
	return problemType{URI: problemTypeBaseURI + path, Title: title}
}

var (
	problemResourceNotFound        = newProblemType("/resource-not-found", "Resource not found")
	problemIncomprehensibleMessage = newProblemType("/incomprehensible-message", "Incomprehensible message")
	problemInvalidParameter        = newProblemType("/invalid-parameter", "Invalid parameter")
	problemInvalidData             = newProblemType("/invalid-data", "Invalid data")
	problemSystemError             = newProblemType("/system-error", "System error")
)

// Problem is the structured error-response body. Detail may carry technical
// information; UserMessage never does.
type Problem struct {
	Type        string    `json:"type,omitempty"`
	Title       string    `json:"title"`
	Status      int       `json:"status"`
	Detail      string    `json:"detail,omitempty"`
	UserMessage string    `json:"userMessage,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Fields      []Field   `json:"fields,omitempty"`
}

type Field struct {
	Name        string `json:"name"`
	UserMessage string `json:"userMessage"`
}

// invalidDataError carries one or more field-level validation failures.
type invalidDataError struct {
	Fields []Field
}

func (e *invalidDataError) Error() string {
	return "invalid data"
}

// invalidParameterError signals a URL or query parameter of the wrong type.
type invalidParameterError struct {
	Name  string
	Value string
	Kind  string
}

func (e *invalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q", e.Name)
}

// routeNotFoundError signals a request for which no route is registered.
type routeNotFoundError struct {
	Path string
}

func (e *routeNotFoundError) Error() string {
	return fmt.Sprintf("no route for %s", e.Path)
}

// ErrorHandlingMiddleware is the single point where handler errors become
// problem-detail responses. Handlers record errors with AbortWithError and
// never write error bodies themselves.
func ErrorHandlingMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			// A handler aborted with a bare status and no body; fill in a
			// minimal problem carrying the status's reason phrase.
			if status := c.Writer.Status(); status >= http.StatusBadRequest {
				writeProblem(c, Problem{
					Title:       http.StatusText(status),
					Status:      status,
					UserMessage: genericUserMessage,
					Timestamp:   time.Now(),
				})
			}
			return
		}

		status, problem := mapError(lastErr.Err)
		if status >= http.StatusInternalServerError && log != nil {
			log.Error("unhandled error", zap.Error(lastErr.Err))
		}
		writeProblem(c, problem)
	}
}

func writeProblem(c *gin.Context, problem Problem) {
	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(problem.Status, problem)
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError classifies an error value into an HTTP status and problem body.
// The full error is never echoed to the client on the 500 path.
func mapError(err error) (int, Problem) {
	var (
		notFound     *productdomain.NotFoundError
		invalidData  *invalidDataError
		invalidParam *invalidParameterError
		noRoute      *routeNotFoundError
		typeErr      *json.UnmarshalTypeError
		syntaxErr    *json.SyntaxError
	)

	switch {
	case errors.As(err, &notFound):
		detail := notFound.Error()
		return http.StatusNotFound, newProblem(http.StatusNotFound, problemResourceNotFound, detail, detail, nil)

	case errors.As(err, &noRoute):
		detail := fmt.Sprintf("Resource %s you tried to access is non-existent.", noRoute.Path)
		return http.StatusNotFound, newProblem(http.StatusNotFound, problemResourceNotFound, detail, genericUserMessage, nil)

	case errors.As(err, &invalidData):
		detail := "One or more fields are invalid. Fill in correctly and try again."
		return http.StatusBadRequest, newProblem(http.StatusBadRequest, problemInvalidData, detail, detail, invalidData.Fields)

	case errors.As(err, &invalidParam):
		detail := fmt.Sprintf(
			"URL parameter '%s' received value '%s', which is of an invalid type. Correct and enter a value compatible with type %s.",
			invalidParam.Name, invalidParam.Value, invalidParam.Kind)
		return http.StatusBadRequest, newProblem(http.StatusBadRequest, problemInvalidParameter, detail, genericUserMessage, nil)

	case errors.As(err, &typeErr):
		detail := fmt.Sprintf(
			"The property '%s' has been given the value '%s', which is an invalid type. Correct and enter a value compatible with type %s.",
			typeErr.Field, typeErr.Value, typeErr.Type.String())
		return http.StatusBadRequest, newProblem(http.StatusBadRequest, problemIncomprehensibleMessage, detail, genericUserMessage, nil)

	case unknownFieldName(err) != "":
		detail := fmt.Sprintf("Property '%s' does not exist. Correct or remove this property and try again.",
			unknownFieldName(err))
		return http.StatusBadRequest, newProblem(http.StatusBadRequest, problemIncomprehensibleMessage, detail, genericUserMessage, nil)

	case errors.As(err, &syntaxErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		detail := "The request body is invalid. Check syntax error."
		return http.StatusBadRequest, newProblem(http.StatusBadRequest, problemIncomprehensibleMessage, detail, genericUserMessage, nil)

	default:
		return http.StatusInternalServerError, newProblem(http.StatusInternalServerError, problemSystemError, genericUserMessage, genericUserMessage, nil)
	}
}

func newProblem(status int, kind problemType, detail, userMessage string, fields []Field) Problem {
	return Problem{
		Type:        kind.URI,
		Title:       kind.Title,
		Status:      status,
		Detail:      detail,
		UserMessage: userMessage,
		Timestamp:   time.Now(),
		Fields:      fields,
	}
}

// unknownFieldName extracts the property name from encoding/json's unknown
// field error, which has no exported type.
func unknownFieldName(err error) string {
	if err == nil {
		return ""
	}
	const marker = `json: unknown field "`
	msg := err.Error()
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return ""
	}
	rest := msg[idx+len(marker):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return ""
	}
	return rest[:end]
}
