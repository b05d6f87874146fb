package httpserver

import (
	"errors"
	"net/http"

	"tea-referrals/internal/domain"
	referralsvc "tea-referrals/internal/service/referral"
	"github.com/gin-gonic/gin"
)

type saleRequest struct {
	CustomerID       string `json:"customerId"`
	Items            string `json:"items"`
	AmountCents      int64  `json:"amountCents"`
	DiscountApplied  bool   `json:"discountApplied"`
	DiscountCents    int64  `json:"discountCents"`
	ReferralCodeUsed string `json:"referralCodeUsed"`
	PaymentMethod    string `json:"paymentMethod"`
}

func recordSaleHandler(svc *referralsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req saleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.CustomerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customerId required"})
			return
		}

		rec, err := svc.RecordSale(c.Request.Context(), referralsvc.SaleInput{
			CustomerID:       req.CustomerID,
			Items:            req.Items,
			AmountCents:      req.AmountCents,
			DiscountApplied:  req.DiscountApplied,
			DiscountCents:    req.DiscountCents,
			ReferralCodeUsed: req.ReferralCodeUsed,
			PaymentMethod:    req.PaymentMethod,
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

func listSalesHandler(svc *referralsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customerId")
		if customerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customerId required"})
			return
		}
		sales, err := svc.SalesFor(c.Request.Context(), customerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if sales == nil {
			sales = []domain.Sale{}
		}
		c.JSON(http.StatusOK, sales)
	}
}
