package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"office-planner/internal/common/middleware"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs
// ============================================================

const openAPIRoute = "/docs/openapi.yaml"

var swaggerPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: {{.SpecURL}},
      dom_id: '#swagger-ui',
      requestInterceptor: (req) => {
        req.headers[{{.UserHeader}}] = req.headers[{{.UserHeader}}] || 'swagger';
        return req;
      },
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`))

type docsPage struct {
	Title      string
	SpecURL    string
	UserHeader string
}

// OpenAPISpec отдаёт вшитый OpenAPI YAML.
func (h *PlannerHandler) OpenAPISpec(c fiber.Ctx) error {
	if len(h.openapi) == 0 {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "openapi document is empty"})
	}
	c.Set(fiber.HeaderContentType, "application/yaml")
	return c.Send(h.openapi)
}

// SwaggerUI отдаёт Swagger UI над openAPIRoute. Запросы из UI
// подставляют X-User-Id, если он не задан.
func (h *PlannerHandler) SwaggerUI(c fiber.Ctx) error {
	var buf bytes.Buffer
	err := swaggerPage.Execute(&buf, docsPage{
		Title:      "Office Planner API",
		SpecURL:    openAPIRoute,
		UserHeader: middleware.HeaderUserID,
	})
	if err != nil {
		return fail(c, "DOCS", err)
	}
	c.Type("html")
	return c.Send(buf.Bytes())
}
