package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/middleware"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

type WalletReader interface {
	WalletBalance(ctx context.Context, customerID, barbershopID string) (int64, error)
}

type MeHandler struct {
	db      *gorm.DB
	wallets WalletReader
}

func NewMeHandler(db *gorm.DB, wallets WalletReader) *MeHandler {
	return &MeHandler{db: db, wallets: wallets}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var customer models.Customer
	if err := h.db.WithContext(c.Request.Context()).
		First(&customer, "id = ?", middleware.CustomerID(c)).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": gin.H{
			"id":       customer.ID,
			"name":     customer.Name,
			"email":    customer.Email,
			"phone":    customer.Phone,
			"document": customer.Document,
		},
	})
}

// Balance returns the wallet of the caller at one shop, in cents.
func (h *MeHandler) Balance(c *gin.Context) {
	shopID := c.Query("barbershop_id")
	if shopID == "" {
		httperr.BadRequest(c, "missing_barbershop_id", "Informe a barbearia.")
		return
	}

	balance, err := h.wallets.WalletBalance(c.Request.Context(), middleware.CustomerID(c), shopID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop_id": shopID,
		"balance":       balance,
	})
}
