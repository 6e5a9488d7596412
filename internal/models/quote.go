package models

// Quote is the persisted form of a delivery quote request.
// Products are stored as a text array.
type Quote struct {
	QuoteID      string   `db:"quote_id"`
	CompanyName  string   `db:"company_name"`
	ContactName  string   `db:"contact_name"`
	Email        string   `db:"email"`
	Phone        string   `db:"phone"`
	Products     []string `db:"products"`
	DeliveryCity string   `db:"delivery_city"`
	DeliveryZip  string   `db:"delivery_zip"`
	Notes        string   `db:"notes"`
	AuditFields
}
