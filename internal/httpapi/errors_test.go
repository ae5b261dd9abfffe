package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradsys/venue/internal/venueerrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestQueryIntFallsBackOnMissingOrInvalid(t *testing.T) {
	c := testContext("/orders?page=3&page_size=oops")
	assert.Equal(t, 3, queryInt(c, "page", 1))
	assert.Equal(t, 50, queryInt(c, "page_size", 50))
	assert.Equal(t, 9, queryInt(c, "absent", 9))
}

func TestPageFromQueryNormalizes(t *testing.T) {
	c := testContext("/orders?page=0&page_size=5000")
	page := pageFromQuery(c)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1000, page.PageSize)
}

func TestPageFromQueryDefaults(t *testing.T) {
	c := testContext("/orders")
	page := pageFromQuery(c)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PageSize)
}

func TestPathInt64ParsesParam(t *testing.T) {
	c := testContext("/clients/42")
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	id, err := pathInt64(c, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestPathInt64RejectsNonInteger(t *testing.T) {
	c := testContext("/clients/oops")
	c.Params = gin.Params{{Key: "id", Value: "oops"}}

	_, err := pathInt64(c, "id")
	assert.Error(t, err)
}

func TestRespondErrorMapsVenueErrorToStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/clients/1", nil)

	respondError(c, venueerrors.New(venueerrors.NotFound, "client 1 not found"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
