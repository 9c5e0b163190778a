package handler

import (
	"github.com/labstack/echo/v4"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/stream"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/response"
	"tukarlapak/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type orderTransitionRequest struct {
	Status           string `json:"status" validate:"required"`
	Reason           string `json:"reason,omitempty" validate:"max=500"`
	DeliveryProvider string `json:"delivery_provider,omitempty"`
	TrackingLink     string `json:"tracking_link,omitempty" validate:"omitempty,url"`
	PaymentProofURL  string `json:"payment_proof_url,omitempty" validate:"omitempty,url"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req usecase.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	order, err := h.orderUseCase.CreateOrder(c.Request().Context(), buyerID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListOrders(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// TransitionOrder moves an order along its lifecycle. The transition table
// decides which role may request which move; rejection needs a reason and
// resubmission needs fresh payment proof.
func (h *OrderHandler) TransitionOrder(c echo.Context) error {
	var req orderTransitionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.TransitionOrder(
		c.Request().Context(),
		userID,
		c.Param("id"),
		entity.OrderStatus(req.Status),
		stream.OrderTransitionDetail{
			Reason:           req.Reason,
			DeliveryProvider: req.DeliveryProvider,
			TrackingLink:     req.TrackingLink,
			PaymentProofURL:  req.PaymentProofURL,
		},
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
