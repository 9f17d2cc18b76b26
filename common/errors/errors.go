package errors

import (
	"fmt"
	"net/http"
)

// Error represents an application error with the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Authentication error types. ErrInvalidCredentials carries the same
// message for an unknown email and a wrong password.
var (
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid email or password", nil)
	ErrTokenExpired       = New(http.StatusUnauthorized, "Token expired", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Checkout error types; each maps to a distinct client-visible reason.
var (
	ErrProductNotFound     = New(http.StatusBadRequest, "Product not found", nil)
	ErrInsufficientStock   = New(http.StatusBadRequest, "Insufficient stock", nil)
	ErrInvalidCoupon       = New(http.StatusBadRequest, "Invalid coupon code", nil)
	ErrCouponLimitExceeded = New(http.StatusBadRequest, "Coupon usage limit exceeded", nil)
	ErrCouponMinimumNotMet = New(http.StatusBadRequest, "Order amount below minimum for coupon", nil)
)
