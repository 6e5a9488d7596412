package domain

// Quote is a single-step delivery quote request from the public site.
type Quote struct {
	QuoteID      string   `json:"quoteID"`
	CompanyName  string   `json:"companyName"`
	ContactName  string   `json:"contactName"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Products     []string `json:"products"`
	DeliveryCity string   `json:"deliveryCity"`
	DeliveryZip  string   `json:"deliveryZip"`
	Notes        string   `json:"notes,omitempty"`
	AuditFields
}
