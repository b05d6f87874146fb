package httpserver

import (
	"errors"
	"net/http"

	"tea-referrals/internal/domain"
	referralsvc "tea-referrals/internal/service/referral"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

type registerResponse struct {
	CustomerID    string          `json:"customerId"`
	ReferralCodes []string        `json:"referralCodes"`
	Customer      domain.Customer `json:"customer"`
	Message       string          `json:"message"`
}

func registerCustomerHandler(svc *referralsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		reg, err := svc.Register(c.Request.Context(), req.Name, req.Phone, req.ReferralCode)
		if err != nil {
			writeRegistrationError(c, err)
			return
		}

		c.JSON(http.StatusCreated, registerResponse{
			CustomerID:    reg.CustomerID,
			ReferralCodes: reg.ReferralCodes,
			Customer:      reg.Customer,
			Message:       "Customer registered successfully!",
		})
	}
}

func writeRegistrationError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "problems": validationErr.Problems})
		return
	}
	var duplicateErr *domain.DuplicateCustomerError
	if errors.As(err, &duplicateErr) {
		c.JSON(http.StatusConflict, gin.H{"error": duplicateErr.Error(), "existingId": duplicateErr.ExistingID})
		return
	}
	var codeErr *domain.InvalidReferralCodeError
	if errors.As(err, &codeErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": codeErr.Message, "reason": string(codeErr.Reason)})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func lookupCustomerHandler(svc *referralsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := c.Query("q")
		details, err := svc.Lookup(c.Request.Context(), term)
		if err != nil {
			var validationErr *domain.ValidationError
			switch {
			case errors.As(err, &validationErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found: " + term})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

type validateCodeRequest struct {
	Code string `json:"code"`
}

func validateCodeHandler(svc *referralsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		validation, err := svc.ValidateReferralCode(c.Request.Context(), req.Code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, validation)
	}
}

func statsHandler(svc *referralsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Summary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
