package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/cqrs"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/internal/query"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/lookup"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/middleware"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

// PointsQuerier defines the read-side operations used by PointsQueryHandler.
type PointsQuerier interface {
	Rates(cqrs.GetRatesQuery) (query.GroupRates, error)
	Customer(cqrs.ResolveCustomerQuery) (models.LoyaltyCustomer, error)
	Search(cqrs.SearchEntriesQuery) (models.SearchPage, error)
}

type PointsQueryHandler struct {
	queries PointsQuerier
}

func NewPointsQueryHandler(queries PointsQuerier) *PointsQueryHandler {
	return &PointsQueryHandler{queries: queries}
}

func (h *PointsQueryHandler) GetRates(c *gin.Context) {
	rates, err := h.queries.Rates(cqrs.GetRatesQuery{GroupCode: c.Param("groupCode")})
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *PointsQueryHandler) GetCustomer(c *gin.Context) {
	customer, err := h.queries.Customer(cqrs.ResolveCustomerQuery{
		LoyaltyNumber: c.Param("loyaltyNumber"),
		GroupCode:     c.Param("groupCode"),
	})
	if err != nil {
		if errors.Is(err, lookup.ErrInvalidLoyaltyNumber) {
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *PointsQueryHandler) SearchEntries(c *gin.Context) {
	kind := models.EntryKind(c.Query("kind"))
	if !kind.Valid() {
		middleware.RespondWithError(c, http.StatusBadRequest, "Query parameter kind must be accrual or redemption")
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	result, err := h.queries.Search(cqrs.SearchEntriesQuery{
		Kind:      kind,
		GroupCode: c.Param("groupCode"),
		Term:      c.Query("searchTerm"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
