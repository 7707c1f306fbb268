package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"orderpad/internal/cart"
	"orderpad/internal/domain"
	"orderpad/internal/session"
)

// cartView is the cart plus its derived figures, the shape every cart
// endpoint responds with.
type cartView struct {
	Cart           domain.Cart                     `json:"cart"`
	TotalQuantity  int                             `json:"totalQuantity"`
	TotalAmount    float64                         `json:"totalAmount"`
	ResolvedPrices map[string]domain.ResolvedPrice `json:"resolvedPrices"`
}

func viewOf(s *session.Session) cartView {
	return cartView{
		Cart:           s.Cart(),
		TotalQuantity:  s.Store().TotalQuantity(),
		TotalAmount:    s.Store().TotalAmount(),
		ResolvedPrices: s.Cache().Resolved(),
	}
}

func getCartHandler(c *gin.Context) {
	c.JSON(http.StatusOK, viewOf(sessionFrom(c)))
}

type setTypeRequest struct {
	Type string `json:"type" binding:"required"`
}

func setTypeHandler(c *gin.Context) {
	var req setTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type required"})
		return
	}
	docType := domain.DocumentType(strings.TrimSpace(req.Type))
	if docType != domain.DocumentOrder && docType != domain.DocumentQuote {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be order or offerte"})
		return
	}
	sess := sessionFrom(c)
	sess.Dispatch(cart.SetType{Type: docType})
	c.JSON(http.StatusOK, viewOf(sess))
}

func setCustomerHandler(c *gin.Context) {
	// body is the customer object, or null to deselect
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer body"})
		return
	}
	var cust *domain.Customer
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" && trimmed != "null" {
		cust = &domain.Customer{}
		if err := json.Unmarshal(body, cust); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer body"})
			return
		}
	}
	if cust != nil && strings.TrimSpace(cust.CustomerNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerNumber required"})
		return
	}
	sess := sessionFrom(c)
	sess.Dispatch(cart.SetCustomer{Customer: cust})
	c.JSON(http.StatusOK, viewOf(sess))
}

type detailsRequest struct {
	Reference    *string `json:"reference"`
	Remark       *string `json:"remark"`
	DeliveryDate *string `json:"deliveryDate"`
	Warehouse    *string `json:"warehouse"`
}

func updateDetailsHandler(c *gin.Context) {
	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	sess := sessionFrom(c)
	if req.Reference != nil {
		sess.Dispatch(cart.SetReference{Value: *req.Reference})
	}
	if req.Remark != nil {
		sess.Dispatch(cart.SetRemark{Value: *req.Remark})
	}
	if req.DeliveryDate != nil {
		sess.Dispatch(cart.SetDeliveryDate{Value: *req.DeliveryDate})
	}
	if req.Warehouse != nil {
		sess.Dispatch(cart.SetWarehouse{Value: *req.Warehouse})
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

type addLineRequest struct {
	ItemID        string                `json:"itemId" binding:"required"`
	ArticleNumber string                `json:"articleNumber"`
	Name          string                `json:"name"`
	BasePrice     *float64              `json:"basePrice"`
	StepSize      int                   `json:"packagingStepSize"`
	ImageURL      string                `json:"imageUrl"`
	Stock         *domain.StockSnapshot `json:"stock"`
	Delta         *int                  `json:"delta"`
}

func addLineHandler(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId required"})
		return
	}
	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}
	sess := sessionFrom(c)
	sess.Dispatch(cart.AddItem{
		Item: cart.ItemPayload{
			ItemID:        req.ItemID,
			ArticleNumber: req.ArticleNumber,
			Name:          req.Name,
			BasePrice:     req.BasePrice,
			StepSize:      req.StepSize,
			ImageURL:      req.ImageURL,
			Stock:         req.Stock,
		},
		Delta: delta,
	})
	c.JSON(http.StatusOK, viewOf(sess))
}

func removeLineHandler(c *gin.Context) {
	sess := sessionFrom(c)
	sess.Dispatch(cart.RemoveLine{ItemID: c.Param("itemId")})
	c.JSON(http.StatusOK, viewOf(sess))
}

// clearHandler empties the lines; ?mode=all resets the whole cart.
func clearHandler(c *gin.Context) {
	sess := sessionFrom(c)
	if c.Query("mode") == "all" {
		sess.Dispatch(cart.Reset{})
	} else {
		sess.Dispatch(cart.ClearLines{})
	}
	c.JSON(http.StatusOK, viewOf(sess))
}
