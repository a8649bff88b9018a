package orders

import "errors"

var (
	ErrNotFound            = errors.New("order not found")
	ErrNoItems             = errors.New("no order items")
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidAddress      = errors.New("incomplete shipping address")
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrDuplicatePayment    = errors.New("payment already used for an order")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidPayStatus    = errors.New("invalid payment status")
)
