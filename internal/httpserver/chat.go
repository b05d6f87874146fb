package httpserver

import (
	"net/http"

	chatsvc "tea-referrals/internal/service/chat"
	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message"`
}

func chatHandler(svc *chatsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		reply := svc.Ask(c.Request.Context(), req.Message)
		c.JSON(http.StatusOK, reply)
	}
}
