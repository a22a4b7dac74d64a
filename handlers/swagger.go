package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the panel API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>ragpanel API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the panel endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "ragpanel-api", "version": "v0.1.0" },
  "paths": {
    "/config": { "get": { "summary": "Backend URL and mock-mode flag", "responses": { "200": { "description": "runtime config" } } } },
    "/mock/bots/info": { "get": { "summary": "List bots", "responses": { "200": { "description": "bot list" } } } },
    "/mock/bots/{project}/verify": {
      "post": {
        "summary": "Verify bot token and upsert the project's bot",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"token":{"type":"string"}},"required":["token"]}}}},
        "responses": { "200": { "description": "bot record" }, "400": { "description": "token missing" } }
      }
    },
    "/mock/users/project/{project}": {
      "get": { "summary": "List project users", "responses": { "200": { "description": "user list" } } },
      "post": { "summary": "Create user", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"phone":{"type":"string"},"username":{"type":"string"}},"required":["phone"]}}}}, "responses": { "201": { "description": "created user" }, "400": { "description": "phone missing" } } }
    },
    "/mock/users/{id}/status": {
      "patch": { "summary": "Set user status (active|blocked)", "responses": { "200": { "description": "updated user" }, "400": { "description": "invalid status" }, "404": { "description": "unknown user" } } }
    },
    "/mock/models/available": { "get": { "summary": "Filterable model catalog", "responses": { "200": { "description": "model list" } } } },
    "/rag/diagnostics": {
      "post": { "summary": "Proxy diagnostics to the RAG backend", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"project_id":{"type":"string"},"user_id":{"type":"string"},"question":{"type":"string"}},"required":["project_id","user_id","question"]}}}}, "responses": { "400": { "description": "missing field" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
