package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/cqrs"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/editor"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/middleware"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/upstream"
)

const dateLayout = "2006-01-02"

// EntryCommander defines the write-side operations used by PointsHandler.
type EntryCommander interface {
	Create(cqrs.CreateEntryCommand) (models.LedgerEntry, error)
	Update(cqrs.UpdateEntryCommand) (models.LedgerEntry, error)
	Delete(cqrs.DeleteEntryCommand) error
}

type PointsHandler struct {
	commands EntryCommander
}

func NewPointsHandler(commands EntryCommander) *PointsHandler {
	return &PointsHandler{commands: commands}
}

// CreateEntryRequest carries raw form input; the editor derives the
// counterpart field and validates. Confirmed must be true — the state
// machine refuses to touch the network without the user's yes.
type CreateEntryRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=accrual redemption"`
	CompanyCode   string `json:"companyCode" validate:"required"`
	LoyaltyNumber string `json:"loyaltyNumber" validate:"required,alphanum,min=3,max=20"`
	Amount        string `json:"amount"`
	Points        string `json:"points"`
	Date          string `json:"date" validate:"required"`
	Narration     string `json:"narration" validate:"max=200"`
	Confirmed     bool   `json:"confirmed"`
}

type UpdateEntryRequest struct {
	Kind           string `json:"kind" validate:"required,oneof=accrual redemption"`
	CompanyCode    string `json:"companyCode" validate:"required"`
	LoyaltyNumber  string `json:"loyaltyNumber" validate:"required,alphanum,min=3,max=20"`
	PreviousPoints int64  `json:"previousPoints" validate:"gte=0"`
	Amount         string `json:"amount"`
	Points         string `json:"points"`
	Date           string `json:"date" validate:"required"`
	Narration      string `json:"narration" validate:"max=200"`
	Confirmed      bool   `json:"confirmed"`
}

func (h *PointsHandler) CreateEntry(c *gin.Context) {
	groupCode := c.Param("groupCode")

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	entry, err := h.commands.Create(cqrs.CreateEntryCommand{
		Session:       models.SessionContext{CompanyCode: req.CompanyCode, GroupCode: groupCode},
		Kind:          models.EntryKind(req.Kind),
		LoyaltyNumber: req.LoyaltyNumber,
		Amount:        req.Amount,
		Points:        req.Points,
		Date:          date,
		Narration:     req.Narration,
		Confirmed:     req.Confirmed,
	})
	if err != nil {
		respondEntryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *PointsHandler) UpdateEntry(c *gin.Context) {
	groupCode := c.Param("groupCode")
	entryID, err := strconv.ParseInt(c.Param("entryId"), 10, 64)
	if err != nil || entryID <= 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid entry id")
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	entry, err := h.commands.Update(cqrs.UpdateEntryCommand{
		Session:        models.SessionContext{CompanyCode: req.CompanyCode, GroupCode: groupCode},
		ID:             entryID,
		Kind:           models.EntryKind(req.Kind),
		LoyaltyNumber:  req.LoyaltyNumber,
		PreviousPoints: req.PreviousPoints,
		Amount:         req.Amount,
		Points:         req.Points,
		Date:           date,
		Narration:      req.Narration,
		Confirmed:      req.Confirmed,
	})
	if err != nil {
		respondEntryError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *PointsHandler) DeleteEntry(c *gin.Context) {
	groupCode := c.Param("groupCode")
	entryID, err := strconv.ParseInt(c.Param("entryId"), 10, 64)
	if err != nil || entryID <= 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid entry id")
		return
	}
	kind := models.EntryKind(c.Query("kind"))
	if !kind.Valid() {
		middleware.RespondWithError(c, http.StatusBadRequest, "Query parameter kind must be accrual or redemption")
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirmed"))

	err = h.commands.Delete(cqrs.DeleteEntryCommand{
		Session:   models.SessionContext{GroupCode: groupCode},
		ID:        entryID,
		Kind:      kind,
		Confirmed: confirmed,
	})
	if err != nil {
		respondEntryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondEntryError maps editor and upstream failures onto HTTP statuses.
func respondEntryError(c *gin.Context, err error) {
	var verrs editor.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]middleware.ValidationError, len(verrs))
		for i, fe := range verrs {
			details[i] = middleware.ValidationError{Field: fe.Field, Message: fe.Message, Type: "invalid"}
		}
		middleware.RespondWithValidationError(c, details)
		return
	}
	switch {
	case errors.Is(err, editor.ErrNotConfirmed):
		middleware.RespondWithError(c, http.StatusBadRequest, "Confirmation required")
	case errors.Is(err, editor.ErrNoEntryLoaded), errors.Is(err, editor.ErrNothingToSubmit):
		middleware.RespondWithError(c, http.StatusBadRequest, "No entry to submit")
	default:
		respondUpstreamError(c, err)
	}
}

// respondUpstreamError translates the upstream error taxonomy for gateway
// clients. Upstream auth and availability problems are the gateway's fault
// from the caller's perspective, hence 502.
func respondUpstreamError(c *gin.Context, err error) {
	switch upstream.KindOf(err) {
	case upstream.KindNotFound:
		middleware.RespondWithError(c, http.StatusNotFound, "Not found")
	case upstream.KindConflict:
		middleware.RespondWithError(c, http.StatusConflict, "Duplicate record")
	case upstream.KindBadRequest:
		middleware.RespondWithError(c, http.StatusBadRequest, "Upstream rejected the request")
	case upstream.KindUnauthorized, upstream.KindServer, upstream.KindNetwork:
		middleware.RespondWithError(c, http.StatusBadGateway, "Loyalty service unavailable")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Unexpected error")
	}
}
