package models

import "time"

// AuthAccount is the login identity. The profile lives on User; the split
// mirrors the sign-up flow, which must create the identity before the
// payment-processor customer and the profile document.
type AuthAccount struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type User struct {
	ID                string    `json:"id"`
	AccountID         string    `json:"account_id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Address1          string    `json:"address1"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	PostalCode        string    `json:"postal_code"`
	DateOfBirth       string    `json:"date_of_birth"`
	SSN               string    `json:"-"`
	DwollaCustomerID  string    `json:"dwolla_customer_id"`
	DwollaCustomerURL string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}
