package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/refstore"
	"github.com/tradsys/venue/internal/venueerrors"
)

// entityHandlers groups the CRUD routes that only need the reference store.
type entityHandlers struct {
	store *refstore.Store
}

func respondError(c *gin.Context, err error) {
	c.JSON(venueerrors.HTTPStatus(venueerrors.KindOf(err)), gin.H{"error": venueerrors.HTTPBody(err)})
}

func pageFromQuery(c *gin.Context) refstore.Pagination {
	page := refstore.Pagination{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 1),
	}
	return page.Normalize()
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func pathInt64(c *gin.Context, key string) (int64, error) {
	return strconv.ParseInt(c.Param(key), 10, 64)
}

func pathInt64Value(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
