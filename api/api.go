package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sahilchouksey/study-planner/database"
	"github.com/sahilchouksey/study-planner/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
	store         database.Storage
}

func NewAPIServer(listenAddress string, store database.Storage) *APIServer {
	return &APIServer{
		app:           fiber.New(NewFiberConfig()),
		listenAddress: listenAddress,
		store:         store,
	}
}

// NewFiberConfig returns the app settings shared by the server and tests.
// Unhandled errors are rendered in the standard response envelope.
func NewFiberConfig() fiber.Config {
	return fiber.Config{
		AppName: "study-planner-api",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return response.Error(c, fiberErr.Code, fiberErr.Message, "HTTP_ERROR")
			}
			return response.FromError(c, err)
		},
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Info("Starting API Server")
	log.Infof("Listening on %s", s.listenAddress)

	return s.app.Listen(s.listenAddress)
}
