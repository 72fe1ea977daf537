package models

import "github.com/shopspring/decimal"

// CreateCustomerRequest is the body of POST /api/create_customer
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateCustomerResponse returns the generated credentials exactly once
type CreateCustomerResponse struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of POST /api/change_password
type ChangePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// OfflinePaymentRequest is the body of POST /api/record_offline_payment
type OfflinePaymentRequest struct {
	Username string          `json:"username"`
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
}

// CreateOrderRequest is the body of POST /api/create_order.
// Gateway credentials are supplied per call and never stored.
type CreateOrderRequest struct {
	Amount       int64  `json:"amount"` // major currency units
	Mode         string `json:"mode"`
	KeyId        string `json:"key_id"`
	KeySecret    string `json:"key_secret"`
	UpiId        string `json:"upi_id"`
	CustomerName string `json:"customer_name"`
	Username     string `json:"username"`
}

// CreateOrderResponse echoes the gateway order id
type CreateOrderResponse struct {
	OrderId string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

// ConfirmPaymentRequest is the body of POST /api/confirm_payment
type ConfirmPaymentRequest struct {
	OrderId      string          `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
	CustomerName string          `json:"customer_name"`
	Username     string          `json:"username"`
	Mode         string          `json:"mode"`
}

// PaymentResult represents the outcome of applying a payment to the ledger
type PaymentResult struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Username   string          `json:"username,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
	NewBalance decimal.Decimal `json:"new_balance,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// DueResponse is the customer-facing view of an outstanding balance
type DueResponse struct {
	Username string `json:"username"`
	Customer string `json:"customer"`
	Due      string `json:"due"` // fixed two decimal places
}
