package meal

import (
	"errors"
	"net/http"

	mealService "mealflow/internal/core/meal"
	"mealflow/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves meal generation requests
type Handler struct {
	mealService *mealService.Service
}

// NewHandler creates a meal handler
func NewHandler(svc *mealService.Service) *Handler {
	return &Handler{
		mealService: svc,
	}
}

// HandleGenerateMeal produces one personalized meal recommendation
func (h *Handler) HandleGenerateMeal(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	common.LogInfo("handling meal generation request",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req mealService.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("invalid request format",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
			Details: err.Error(),
		})
		return
	}

	result, err := h.mealService.GenerateMeal(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, requestID, err)
		return
	}

	common.LogInfo("meal generation succeeded",
		zap.String("request_id", requestID),
		zap.String("meal_name", result.Meal.Name),
		zap.String("meal_type", result.Meal.Type),
	)

	c.JSON(http.StatusOK, result)
}

// writeError maps core errors onto transport responses. Invalid input
// is a 400; every downstream failure is a 500 distinguished only by
// the error payload.
func (h *Handler) writeError(c *gin.Context, requestID string, err error) {
	var recErr *mealService.RecoveryError
	if errors.As(err, &recErr) {
		common.LogError("meal recovery failed",
			zap.String("request_id", requestID),
			zap.String("reason", string(recErr.Reason)),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeRecoveryError,
			Message: "Failed to decode the recipe from the AI",
			Details: string(recErr.Reason) + ": " + recErr.RawSample,
		})
		return
	}

	var tagged *common.CustomError
	if errors.As(err, &tagged) {
		common.LogError("meal generation failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("code", tagged.Code),
		)
		resp := common.ErrorResponse{
			Code:    tagged.Code,
			Message: tagged.Message,
		}
		if tagged.Err != nil {
			resp.Details = tagged.Err.Error()
		}
		c.JSON(tagged.Status, resp)
		return
	}

	common.LogError("meal generation failed",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "Meal generation failed",
	})
}
