package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"syndic-reconciliation-backend/internal/models"
	service "syndic-reconciliation-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxCandidates = 10

type ReconciliationHandler struct {
	service       *service.Service
	minConfidence int
}

func NewReconciliationHandler(svc *service.Service, minConfidence int) *ReconciliationHandler {
	return &ReconciliationHandler{service: svc, minConfidence: minConfidence}
}

// GetQueue lists active review-queue entries, optionally filtered to one
// queue status via ?status=pending|suggested.
func (h *ReconciliationHandler) GetQueue(c *gin.Context) {
	condoID, ok := condoParam(c)
	if !ok {
		return
	}
	status := models.QueueStatus(c.Query("status"))
	switch status {
	case "", models.QueuePending, models.QueueSuggested:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or suggested"})
		return
	}

	entries, err := h.service.Queue(condoID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries, "count": len(entries)})
}

// GetCandidates returns the top scored targets for one transaction.
func (h *ReconciliationHandler) GetCandidates(c *gin.Context) {
	condoID, ok := condoParam(c)
	if !ok {
		return
	}
	txID, err := uuid.Parse(c.Param("txId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	candidates, err := h.service.Candidates(condoID, txID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	c.JSON(http.StatusOK, gin.H{"items": candidates, "count": len(candidates)})
}

// ConfirmMatch confirms a manual match between a transaction and a target.
func (h *ReconciliationHandler) ConfirmMatch(c *gin.Context) {
	condoID, ok := condoParam(c)
	if !ok {
		return
	}
	var payload struct {
		TransactionID string `json:"transaction_id" binding:"required"`
		TargetType    string `json:"target_type" binding:"required"`
		TargetID      string `json:"target_id" binding:"required"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	txID, err := uuid.Parse(payload.TransactionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}
	targetType, err := models.ParseTargetType(payload.TargetType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targetID, err := uuid.Parse(payload.TargetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target ID"})
		return
	}

	rec, err := h.service.Confirm(condoID, actorFrom(c), txID,
		models.TargetRef{Type: targetType, ID: targetID}, payload.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "match confirmed", "reconciliation": rec})
}

// AutoMatch runs one batch auto-match pass for the condominium.
func (h *ReconciliationHandler) AutoMatch(c *gin.Context) {
	condoID, ok := condoParam(c)
	if !ok {
		return
	}
	var payload struct {
		MinConfidence *int `json:"min_confidence"`
	}
	// an empty body means defaults
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	minConfidence := h.minConfidence
	if payload.MinConfidence != nil {
		minConfidence = *payload.MinConfidence
	}
	if minConfidence < 0 || minConfidence > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_confidence must be between 0 and 100"})
		return
	}

	result, err := h.service.AutoMatch(condoID, minConfidence)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetHistory lists confirmed matches, newest first, optionally windowed
// with ?from=&to= (RFC 3339 or YYYY-MM-DD).
func (h *ReconciliationHandler) GetHistory(c *gin.Context) {
	condoID, ok := condoParam(c)
	if !ok {
		return
	}
	from, err := timeQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	entries, err := h.service.History(condoID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries, "count": len(entries)})
}

// GetStats returns queue counts grouped by status.
func (h *ReconciliationHandler) GetStats(c *gin.Context) {
	condoID, ok := condoParam(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(condoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RejectRecord dismisses a suggestion.
func (h *ReconciliationHandler) RejectRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record ID"})
		return
	}
	var payload struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&payload)

	rec, err := h.service.Reject(actorFrom(c), id, payload.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "suggestion rejected", "reconciliation": rec})
}

// IgnoreRecord excludes the record's transaction from future matching.
func (h *ReconciliationHandler) IgnoreRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record ID"})
		return
	}
	rec, err := h.service.Ignore(actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction ignored", "reconciliation": rec})
}

// DeleteRecord undoes a record and reverts its transaction to unmatched.
func (h *ReconciliationHandler) DeleteRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record ID"})
		return
	}
	if err := h.service.Delete(actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation deleted"})
}

func condoParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("condoId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid condominium ID"})
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom reads the authenticated user injected upstream by the auth
// middleware; absent that, the caller acts as a user-less system actor.
func actorFrom(c *gin.Context) models.Actor {
	if userID, err := uuid.Parse(c.GetHeader("X-User-ID")); err == nil {
		return models.UserActor(userID)
	}
	return models.SystemActor()
}

func timeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, strconv.ErrSyntax
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrAlreadyReconciled),
		errors.Is(err, service.ErrTerminalRecord):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
