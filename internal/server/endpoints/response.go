package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jackzampolin/promptbox/internal/prompts"
	"github.com/jackzampolin/promptbox/internal/schema"
	"github.com/jackzampolin/promptbox/internal/svcctx"
)

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges an operation that returns no record.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response.
func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// writeError writes a JSON error response.
func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// writeStoreError maps a store error to a status code. Unexpected errors
// are logged and reported with failMsg only.
func writeStoreError(c *gin.Context, err error, notFoundMsg, failMsg string) {
	switch {
	case errors.Is(err, prompts.ErrNotFound):
		writeError(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, prompts.ErrValidation),
		errors.Is(err, prompts.ErrInvalidFolder),
		errors.Is(err, prompts.ErrDuplicateFolder),
		errors.Is(err, prompts.ErrInvalidVote):
		writeError(c, http.StatusBadRequest, prompts.Message(err, err.Error()))
	default:
		svcctx.LoggerFrom(c.Request.Context()).Error(failMsg,
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString("request_id"),
		)
		writeError(c, http.StatusInternalServerError, failMsg)
	}
}

// bindBody reads the request body, checks it against the named schema and
// decodes it into dst. An empty body is treated as {}. On failure the error
// response has already been written.
func bindBody(c *gin.Context, schemaName string, dst any) bool {
	body, err := c.GetRawData()
	if err != nil {
		writeError(c, http.StatusBadRequest, "failed to read request body")
		return false
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	if err := schema.Validate(schemaName, body); err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			writeError(c, http.StatusBadRequest, ve.Error())
			return false
		}
		writeStoreError(c, err, "", "Failed to validate request")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseID reads the :id path parameter. A non-numeric id cannot name a
// record, so it is reported as notFoundMsg.
func parseID(c *gin.Context, notFoundMsg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(c, http.StatusNotFound, notFoundMsg)
		return 0, false
	}
	return uint(id), true
}

// storeFrom returns the prompt store for the request.
func storeFrom(c *gin.Context) prompts.Repository {
	return svcctx.StoreFrom(c.Request.Context())
}
