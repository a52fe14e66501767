package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "vrf-raffle-backend/internal/common/errors"
	attmodels "vrf-raffle-backend/internal/features/attestation/models"
	attestation "vrf-raffle-backend/internal/features/attestation/service"
	raffleservice "vrf-raffle-backend/internal/features/raffle/service"
)

type RaffleHandler struct {
	service      raffleservice.RaffleService
	orchestrator *raffleservice.Orchestrator
	attest       *attestation.Service
}

func NewRaffleHandler(service raffleservice.RaffleService, orchestrator *raffleservice.Orchestrator, attest *attestation.Service) *RaffleHandler {
	return &RaffleHandler{service: service, orchestrator: orchestrator, attest: attest}
}

func (h *RaffleHandler) RegisterRoutes(router *gin.RouterGroup, adminMiddleware ...gin.HandlerFunc) {
	scores := router.Group("/scores")
	{
		scores.POST("", h.submitScore)
	}

	raffles := router.Group("/raffles")
	{
		raffles.GET("/:day", h.getResult)
		raffles.GET("/:day/proof/:wallet", h.getProof)
		raffles.GET("/:day/verify/:wallet", h.verifyEntry)
	}

	router.GET("/attestation/key", h.getPublicKey)

	admin := router.Group("/admin", adminMiddleware...)
	{
		admin.POST("/draw", h.triggerDraw)
	}
}

// @Summary Submit a game score
// @Description Records an attested score for the submitting wallet's committed session
// @Tags scores
// @Accept json
// @Produce json
// @Param input body attmodels.ScoreSubmissionRequest true "Score submission"
// @Success 200 {object} attmodels.ScoreAttestationRecord "Signed attestation"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /scores [post]
func (h *RaffleHandler) submitScore(c *gin.Context) {
	var input attmodels.ScoreSubmissionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.SubmitScore(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// @Summary Get a day's raffle result
// @Tags raffles
// @Produce json
// @Param day path string true "UTC day, format 2006-01-02"
// @Success 200 {object} models.RaffleResult
// @Failure 404 {object} map[string]string "No result for this day"
// @Router /raffles/{day} [get]
func (h *RaffleHandler) getResult(c *gin.Context) {
	result, err := h.service.GetResult(c.Request.Context(), c.Param("day"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Get a wallet's Merkle inclusion proof
// @Tags raffles
// @Produce json
// @Param day path string true "UTC day"
// @Param wallet path string true "Qualified wallet"
// @Success 200 {object} models.ProofResponse
// @Failure 404 {object} map[string]string "Wallet did not qualify"
// @Router /raffles/{day}/proof/{wallet} [get]
func (h *RaffleHandler) getProof(c *gin.Context) {
	proof, err := h.service.GetProof(c.Request.Context(), c.Param("day"), c.Param("wallet"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, proof)
}

// @Summary Verify a wallet's inclusion against the published root
// @Tags raffles
// @Produce json
// @Param day path string true "UTC day"
// @Param wallet path string true "Qualified wallet"
// @Success 200 {object} map[string]bool
// @Router /raffles/{day}/verify/{wallet} [get]
func (h *RaffleHandler) verifyEntry(c *gin.Context) {
	ok, err := h.service.VerifyEntry(c.Request.Context(), c.Param("day"), c.Param("wallet"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": ok})
}

// @Summary Get the attestation public key
// @Tags scores
// @Produce json
// @Success 200 {object} map[string]string
// @Router /attestation/key [get]
func (h *RaffleHandler) getPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"public_key": h.attest.PublicKey()})
}

// @Summary Trigger a daily draw manually
// @Description Runs the raffle for the given day (defaults to the previous UTC day)
// @Tags admin
// @Produce json
// @Security TelegramInitData
// @Param day query string false "UTC day, format 2006-01-02"
// @Success 200 {object} models.RaffleResult
// @Failure 409 {object} map[string]string "Result already stored"
// @Router /admin/draw [post]
func (h *RaffleHandler) triggerDraw(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		day = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be formatted as 2006-01-02"})
		return
	}

	result, err := h.orchestrator.RunDaily(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"day": day, "message": "no qualified entries, draw skipped"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case appErr.IsNotFound():
		status = http.StatusNotFound
	case appErr.IsValidation():
		status = http.StatusBadRequest
	case appErr.Code == apperrors.ErrCodeSignatureVerificationFailed:
		status = http.StatusUnprocessableEntity
	case appErr.Code == apperrors.ErrCodeConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": appErr.Message, "code": string(appErr.Code)})
}
