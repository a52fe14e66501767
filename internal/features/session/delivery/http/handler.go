package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "vrf-raffle-backend/internal/common/errors"
	"vrf-raffle-backend/internal/features/session/models"
	sessionservice "vrf-raffle-backend/internal/features/session/service"
)

type SessionHandler struct {
	service sessionservice.SessionService
}

func NewSessionHandler(service sessionservice.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.commit)
		sessions.POST("/:id/reveal", h.reveal)
	}
}

// @Summary Commit a game session
// @Description Opens a commit-reveal session; only the seed hash is returned
// @Tags sessions
// @Accept json
// @Produce json
// @Param input body models.CommitRequest true "Session commit"
// @Success 200 {object} models.CommitResult
// @Failure 400 {object} map[string]string "Validation error"
// @Router /sessions [post]
func (h *SessionHandler) commit(c *gin.Context) {
	var input models.CommitRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Commit(c.Request.Context(), input.Wallet, input.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Reveal a session seed
// @Description One-shot reveal; a second call returns revealed=false with no seed
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.RevealResponse
// @Failure 500 {object} map[string]string "Seed verification failure"
// @Router /sessions/{id}/reveal [post]
func (h *SessionHandler) reveal(c *gin.Context) {
	sessionID := c.Param("id")

	seed, ok, err := h.service.Reveal(c.Request.Context(), sessionID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeSeedVerificationFailed {
			c.JSON(http.StatusInternalServerError, gin.H{"error": appErr.Message, "code": string(appErr.Code)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.RevealResponse{
		SessionID: sessionID,
		Seed:      seed,
		Revealed:  ok,
	})
}
