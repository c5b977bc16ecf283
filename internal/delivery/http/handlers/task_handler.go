package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ratewatch/rates-service/internal/app/background"
	"github.com/ratewatch/rates-service/internal/delivery/http/dto"
)

type TaskHandler struct {
	poller *background.Poller
}

func NewTaskHandler(poller *background.Poller) *TaskHandler {
	return &TaskHandler{poller: poller}
}

// RunOnce triggers one synchronous poll cycle outside the recurring
// schedule. This is the only place a cycle failure reaches a caller.
func (h *TaskHandler) RunOnce(c *fiber.Ctx) error {
	if err := h.poller.RunCycle(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to run poll cycle"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "ok"})
}
