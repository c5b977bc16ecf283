package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewApp(itemHandler *ItemHandler, taskHandler *TaskHandler, wsHandler *WSHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "rates-service",
	})
	app.Use(recover.New())

	app.Get("/items", itemHandler.ListItems)
	app.Get("/items/:id", itemHandler.GetItem)
	app.Post("/items", itemHandler.CreateItem)
	app.Patch("/items/:id", itemHandler.UpdateItem)
	app.Delete("/items/:id", itemHandler.DeleteItem)

	app.Post("/tasks/run", taskHandler.RunOnce)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/ws/items", wsHandler.Upgrade)
	app.Get("/ws/items", websocket.New(wsHandler.Serve))

	return app
}
