package handler

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/response"
)

type CallHandler struct {
	callUseCase *usecase.CallUseCase
}

func NewCallHandler(callUseCase *usecase.CallUseCase) *CallHandler {
	return &CallHandler{
		callUseCase: callUseCase,
	}
}

type startCallRequest struct {
	CalleeID string `json:"callee_id" validate:"required"`
}

type respondCallRequest struct {
	Accept bool `json:"accept"`
}

func (h *CallHandler) StartCall(c echo.Context) error {
	var req startCallRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	callerID := c.Get("uid").(string)

	call, err := h.callUseCase.StartCall(c.Request().Context(), callerID, req.CalleeID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, call)
}

func (h *CallHandler) RespondToCall(c echo.Context) error {
	var req respondCallRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	call, err := h.callUseCase.RespondToCall(c.Request().Context(), userID, c.Param("id"), req.Accept)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, call)
}

func (h *CallHandler) EndCall(c echo.Context) error {
	userID := c.Get("uid").(string)

	call, err := h.callUseCase.EndCall(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, call)
}
