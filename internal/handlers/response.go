package handlers

import (
	"encoding/json"

	"garden/internal/models"
	"garden/internal/query"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Token      string `json:"token,omitempty"`
}

// ErrorEnvelope is the body written by ErrorHandler.
type ErrorEnvelope struct {
	Success      bool                 `json:"success"`
	StatusCode   int                  `json:"statusCode"`
	Message      string               `json:"message"`
	ErrorSources []models.ErrorSource `json:"errorSources,omitempty"`
}

// Page is the data of list responses.
type Page[T any] struct {
	Result []T        `json:"result"`
	Meta   query.Meta `json:"meta"`
}

func sendResponse(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

func ok(c *fiber.Ctx, message string, data any) error {
	return sendResponse(c, fiber.StatusOK, message, data)
}

func created(c *fiber.Ctx, message string, data any) error {
	return sendResponse(c, fiber.StatusCreated, message, data)
}

// noDataFound answers an empty listing with 404 and an empty data array.
func noDataFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(Envelope{
		Success:    false,
		StatusCode: fiber.StatusNotFound,
		Message:    message,
		Data:       []any{},
	})
}

func sendList[T any](c *fiber.Ctx, message, emptyMessage string, items []T) error {
	if len(items) == 0 {
		return noDataFound(c, emptyMessage)
	}
	return ok(c, message, items)
}

// sendPage answers one page of a list. When fields is set only those keys are rendered,
// so columns left out of the query never show up as zero values.
func sendPage[T any](c *fiber.Ctx, message, emptyMessage string, items []T, meta query.Meta, fields []query.Field) error {
	if len(items) == 0 {
		return noDataFound(c, emptyMessage)
	}
	if len(fields) == 0 {
		return ok(c, message, Page[T]{Result: items, Meta: meta})
	}

	projected, err := project(items, fields)
	if err != nil {
		return err
	}
	return ok(c, message, Page[map[string]any]{Result: projected, Meta: meta})
}

func project[T any](items []T, fields []query.Field) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var full map[string]json.RawMessage
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, err
		}

		selected := make(map[string]any, len(fields))
		for _, f := range fields {
			if v, ok := full[f.Name]; ok {
				selected[f.Name] = v
			}
		}
		out = append(out, selected)
	}
	return out, nil
}
