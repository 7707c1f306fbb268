package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"orderpad/internal/cart"
	"orderpad/internal/domain"
	"orderpad/internal/service/order"
)

func submitHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		payload, err := orders.Submit(c.Request.Context(), sess.AgentID, sess.Cart(), sess.Cache().UnitPrice)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNoCustomer):
				c.JSON(http.StatusBadRequest, gin.H{"error": "no customer selected"})
			case errors.Is(err, domain.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			case errors.Is(err, domain.ErrDeliveryDateRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "delivery date required"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": "submit failed"})
			}
			return
		}
		// lines are cleared only after the submission is on its way; header
		// fields stay for the next order to the same customer
		sess.Dispatch(cart.ClearLines{})
		c.JSON(http.StatusOK, gin.H{"order": payload, "cart": viewOf(sess)})
	}
}
