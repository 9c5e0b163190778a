package handler

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/stream"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/response"
	"tukarlapak/pkg/utils"
)

type BarterHandler struct {
	barterUseCase *usecase.BarterUseCase
}

func NewBarterHandler(barterUseCase *usecase.BarterUseCase) *BarterHandler {
	return &BarterHandler{
		barterUseCase: barterUseCase,
	}
}

type barterTransitionRequest struct {
	Status           string `json:"status" validate:"required"`
	Reason           string `json:"reason,omitempty" validate:"max=500"`
	DeliveryProvider string `json:"delivery_provider,omitempty"`
	TrackingLink     string `json:"tracking_link,omitempty" validate:"omitempty,url"`
}

func (h *BarterHandler) CreateBarter(c echo.Context) error {
	var req usecase.CreateBarterInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	requesterID := c.Get("uid").(string)

	barter, err := h.barterUseCase.CreateBarterRequest(c.Request().Context(), requesterID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, barter)
}

func (h *BarterHandler) ListBarters(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	barters, total, err := h.barterUseCase.ListBarters(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, barters, total, pagination.Page, pagination.PageSize)
}

func (h *BarterHandler) GetBarter(c echo.Context) error {
	userID := c.Get("uid").(string)

	barter, err := h.barterUseCase.GetBarter(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, barter)
}

func (h *BarterHandler) TransitionBarter(c echo.Context) error {
	var req barterTransitionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	barter, err := h.barterUseCase.TransitionBarter(
		c.Request().Context(),
		userID,
		c.Param("id"),
		entity.BarterStatus(req.Status),
		stream.TradeTransitionDetail{
			Reason:           req.Reason,
			DeliveryProvider: req.DeliveryProvider,
			TrackingLink:     req.TrackingLink,
		},
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, barter)
}

// ConfirmMeetup records one party's half of the meet-up handshake. The trade
// completes only once both parties have confirmed.
func (h *BarterHandler) ConfirmMeetup(c echo.Context) error {
	userID := c.Get("uid").(string)

	barter, err := h.barterUseCase.ConfirmMeetup(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, barter)
}
