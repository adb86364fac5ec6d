package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

type idsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

type bulkUpdateRequest struct {
	IDs   []int64 `json:"ids" binding:"required,min=1"`
	Field string  `json:"field" binding:"required"`
	Value string  `json:"value" binding:"required"`
}

type affectedResponse struct {
	Affected int64 `json:"affected"`
}

func pathID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Field: "id", Reason: "invalid id " + strconv.Quote(raw)}
	}
	return id, nil
}

func queryID(c *gin.Context, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, &models.ValidationError{Field: key, Reason: "invalid id " + strconv.Quote(raw)}
	}
	return &id, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &models.ValidationError{Field: key, Reason: "must be a non-negative integer"}
	}
	return n, nil
}

// reservedQuery are listing parameters that are not field filters.
var reservedQuery = map[string]struct{}{
	"start": {}, "end": {}, "safra_id": {}, "origin": {},
	"aircraft_id": {}, "employee_id": {}, "q": {}, "offset": {}, "limit": {},
}

// fieldFilters collects every non-reserved query parameter as a field
// filter keyed by its name.
func fieldFilters(values url.Values) map[string]string {
	out := make(map[string]string)
	for key, vals := range values {
		if _, reserved := reservedQuery[key]; reserved || len(vals) == 0 {
			continue
		}
		out[key] = vals[0]
	}
	return out
}
