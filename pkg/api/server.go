package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/cifparser/pkg/api/routes"
)

const maxBodySize = 64 * 1024 * 1024

func NewApp() *fiber.App {
	webApp := fiber.New(fiber.Config{
		BodyLimit: maxBodySize,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.DecodeRouter(group.Group("/decode"))
	routes.DatasetsRouter(group.Group("/datasets"))

	return webApp
}

func SetupServer(listen string) error {
	return NewApp().Listen(listen)
}
