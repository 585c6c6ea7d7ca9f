package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"forumapi/internal/http/middleware"
	"forumapi/internal/repository"
	"forumapi/internal/service"
)

// Deps carries what the routes need. Users may be nil, in which case every
// viewer is a guest and activity is not tracked. Metrics may be nil to skip /metrics.
type Deps struct {
	DB      *sql.DB
	Topics  service.TopicService
	Users   repository.UserRepository
	Metrics prometheus.Gatherer
	Log     zerolog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(docsPage)
	})

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", Liveness())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	var forum []fiber.Handler
	if d.Users != nil {
		forum = append(forum, middleware.Session(d.Users), middleware.TrackActivity(d.Users, d.Log))
	}
	with := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, forum...), h)
	}

	app.Get("/topics/search", with(SearchTopics(d.Topics))...)

	mb := app.Group("/messageboards/:messageboard_id")
	mb.Get("/categories/:category_id", with(CategoryTopics(d.Topics))...)

	// Static segments go before :id so "search" and "new" are never taken for slugs.
	mb.Get("/topics", with(ListTopics(d.Topics))...)
	mb.Post("/topics", with(CreateTopic(d.Topics))...)
	mb.Get("/topics/search", with(SearchTopics(d.Topics))...)
	mb.Get("/topics/new", with(NewTopic(d.Topics))...)
	mb.Get("/topics/:id", with(ShowTopic(d.Topics))...)
	mb.Get("/topics/:id/edit", with(EditTopic(d.Topics))...)
	mb.Patch("/topics/:id", with(UpdateTopic(d.Topics))...)
	mb.Put("/topics/:id", with(UpdateTopic(d.Topics))...)
	mb.Delete("/topics/:id", with(DestroyTopic(d.Topics))...)
}

const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Forum API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
