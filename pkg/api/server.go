package api

import (
	"github.com/bussin/bussin/pkg/api/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func NewApp() *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())
	webApp.Use(recover.New())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter(group.Group("/stops"))
	routes.ArrivalsRouter(group.Group("/arrivals"))
	routes.StatsRouter(group.Group("/stats"))

	return webApp
}

func SetupServer(listen string) error {
	return NewApp().Listen(listen)
}
