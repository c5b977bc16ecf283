package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/ratewatch/rates-service/internal/delivery/http/dto"
	"github.com/ratewatch/rates-service/internal/domain"
	"github.com/ratewatch/rates-service/internal/usecase"
	itemdto "github.com/ratewatch/rates-service/internal/usecase/dto/item"
)

type ItemHandler struct {
	itemUsecase usecase.ItemUsecase
	validate    *validator.Validate
}

func NewItemHandler(itemUsecase usecase.ItemUsecase) *ItemHandler {
	return &ItemHandler{
		itemUsecase: itemUsecase,
		validate:    validator.New(),
	}
}

func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.itemUsecase.GetItems()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to list items"})
	}

	response := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, dto.ToItemResponse(item))
	}
	return c.JSON(response)
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.itemUsecase.GetItemByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to fetch item"})
	}
	return c.JSON(dto.ToItemResponse(item))
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	item, err := h.itemUsecase.CreateItem(&itemdto.CreateItemInput{
		Currency:       req.Currency,
		Rate:           req.Rate,
		Amount:         req.Amount,
		Platform:       req.Platform,
		CryptoCurrency: req.CryptoCurrency,
	})
	if err != nil {
		if errors.Is(err, domain.ErrItemExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "item with this currency already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to create item"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ToItemResponse(item))
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	item, err := h.itemUsecase.UpdateItem(c.UserContext(), c.Params("id"), &itemdto.UpdateItemInput{
		Rate:           req.Rate,
		Amount:         req.Amount,
		Platform:       req.Platform,
		CryptoCurrency: req.CryptoCurrency,
	})
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to update item"})
	}

	return c.JSON(dto.ToItemResponse(item))
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.itemUsecase.DeleteItem(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to delete item"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
