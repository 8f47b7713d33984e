package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterDocs registers the API documentation endpoints.
// - GET /docs/index.html   -> a small HTML page that loads the OpenAPI JSON
// - GET /docs/openapi.json -> machine-readable OpenAPI JSON
func RegisterDocs(r *gin.Engine) {
	r.GET("/docs/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, docsHTML)
	})

	r.GET("/docs/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(docsJSON))
	})
}

const docsHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>quill API docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/docs/openapi.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the posts surface.
const docsJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "quill", "version": "v0.1.0" },
  "paths": {
    "/posts": {
      "get": {
        "summary": "List all posts",
        "responses": { "200": { "description": "object with a posts array; author is a single \"First Last\" string" } }
      },
      "post": {
        "summary": "Create a post",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title","author","content"],"properties":{"title":{"type":"string"},"author":{"type":"object","properties":{"firstName":{"type":"string"},"lastName":{"type":"string"}}},"content":{"type":"string"}}}}}},
        "responses": { "201": { "description": "created post" }, "400": { "description": "missing required field" } }
      }
    },
    "/posts/{id}": {
      "get": { "summary": "Fetch one post", "responses": { "200": { "description": "the post" }, "404": { "description": "unknown id" } } },
      "put": {
        "summary": "Partially update a post",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id":{"type":"string"},"title":{"type":"string"},"author":{"type":"object","properties":{"firstName":{"type":"string"},"lastName":{"type":"string"}}},"content":{"type":"string"}}}}}},
        "responses": { "204": { "description": "updated" }, "400": { "description": "id mismatch or empty field" }, "404": { "description": "unknown id" } }
      },
      "delete": { "summary": "Delete a post", "responses": { "204": { "description": "deleted (idempotent)" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
