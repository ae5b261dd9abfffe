// Package api carries the OpenAPI/Swagger surface: Swagger UI served via
// swaggo/gin-swagger, plus the per-area OpenAPI JSON documents at
// /{area}-schema/openapi.json that §6 requires. Adapted from the teacher's
// static-file Swagger mount (this file's earlier form) to the swaggo-managed
// one, since the generated docs/swagger-ui tree it served no longer exists
// in this repo.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// areas lists the six entities an OpenAPI document is generated for.
var areas = []string{"clients", "markets", "sub_accounts", "orders", "fills", "positions"}

// RegisterSwaggerRoutes mounts the interactive Swagger UI and the per-area
// OpenAPI JSON documents.
func RegisterSwaggerRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	for _, area := range areas {
		area := area
		router.GET("/"+area+"-schema/openapi.json", func(c *gin.Context) {
			c.JSON(http.StatusOK, openAPIDocument(area))
		})
	}
}

// openAPIDocument builds a minimal valid OpenAPI 3 document scoped to one
// area: the OpenAPI version, a title and a version string. Its paths object
// is empty; no operations, entity schemas or error kinds are described.
func openAPIDocument(area string) gin.H {
	return gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":   area + " API",
			"version": "1.0.0",
		},
		"paths": gin.H{},
	}
}
