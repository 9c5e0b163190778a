package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"tukarlapak/internal/domain/repository"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/response"
	"tukarlapak/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req usecase.CreateListingInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), sellerID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	filter := repository.ListingFilter{
		SellerID: c.QueryParam("seller_id"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Query:    c.QueryParam("q"),
	}

	if raw := c.QueryParam("allow_barter"); raw != "" {
		if allowBarter, err := strconv.ParseBool(raw); err == nil {
			filter.AllowBarter = &allowBarter
		}
	}

	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) MyListings(c echo.Context) error {
	filter := repository.ListingFilter{
		SellerID: c.Get("uid").(string),
		Status:   c.QueryParam("status"),
	}

	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	// Count the view when the caller is authenticated; dedup is per viewer
	// per day and the seller's own views never count.
	if viewerID, ok := c.Get("uid").(string); ok && viewerID != "" {
		h.listingUseCase.RecordView(c.Request().Context(), listing.ID, viewerID)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req usecase.UpdateListingInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), sellerID, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), sellerID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Listing deleted",
	})
}

func (h *ListingHandler) AddFavorite(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.listingUseCase.AddFavorite(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Listing favorited",
	})
}

func (h *ListingHandler) RemoveFavorite(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.listingUseCase.RemoveFavorite(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Listing unfavorited",
	})
}

func (h *ListingHandler) ListFavorites(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListFavorites(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}
