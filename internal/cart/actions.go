package cart

import "orderpad/internal/domain"

// Action is the closed set of cart state transitions. Every mutation of a
// cart goes through Apply with one of these; there is no other write path.
type Action interface {
	isAction()
}

// ItemPayload describes the article being added or decremented. Optional
// fields left at their zero value (or nil) mean "not provided" and keep the
// existing line's value on merge.
type ItemPayload struct {
	ItemID        string
	ArticleNumber string
	Name          string
	BasePrice     *float64
	StepSize      int
	ImageURL      string
	Stock         *domain.StockSnapshot
}

type Hydrate struct{ Cart domain.Cart }

type SetType struct{ Type domain.DocumentType }

type SetCustomer struct{ Customer *domain.Customer }

type SetReference struct{ Value string }

type SetRemark struct{ Value string }

type SetDeliveryDate struct{ Value string }

type SetWarehouse struct{ Value string }

// AddItem adjusts the quantity of a line by Delta units, creating the line
// on a positive delta and removing it when the result drops to zero or
// below.
type AddItem struct {
	Item  ItemPayload
	Delta int
}

type RemoveLine struct{ ItemID string }

type ClearLines struct{}

type Reset struct{}

func (Hydrate) isAction()         {}
func (SetType) isAction()         {}
func (SetCustomer) isAction()     {}
func (SetReference) isAction()    {}
func (SetRemark) isAction()       {}
func (SetDeliveryDate) isAction() {}
func (SetWarehouse) isAction()    {}
func (AddItem) isAction()         {}
func (RemoveLine) isAction()      {}
func (ClearLines) isAction()      {}
func (Reset) isAction()           {}
