package models

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ExchangePublicTokenRequest struct {
	PublicToken string `json:"publicToken"`
}

type TransferRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Amount     string `json:"amount"`
	SenderBank string `json:"senderBank"`
	SharableID string `json:"sharableId"`
}
