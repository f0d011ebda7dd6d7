package domain

// Rows are list-view projections of upstream records with display strings filled in.

// ProductRow is a product as shown in the products table
type ProductRow struct {
	Product
	CategoryLabels       []string `json:"categoryLabels,omitempty"`
	OriginalPriceDisplay string   `json:"originalPriceDisplay"`
	SellingPriceDisplay  string   `json:"sellingPriceDisplay"`
	InStock              bool     `json:"inStock"`
	CreatedAtDisplay     string   `json:"createdAtDisplay,omitempty"`
}

// OrderRow is an order as shown in the orders table
type OrderRow struct {
	Order
	ItemCount           int    `json:"itemCount"`
	TotalDisplay        string `json:"totalDisplay"`
	CreatedAtDisplay    string `json:"createdAtDisplay,omitempty"`
	DeliveryDateDisplay string `json:"deliveryDateDisplay,omitempty"`
}

// ClassRow is a workshop as shown in the classes table
type ClassRow struct {
	Class
	DateDisplay    string `json:"dateDisplay"`
	PriceDisplay   string `json:"priceDisplay"`
	SeatsRemaining int    `json:"seatsRemaining"`
}

// CouponRow is a coupon as shown in the coupons table
type CouponRow struct {
	Coupon
	ValueDisplay     string `json:"valueDisplay"`
	MinOrderDisplay  string `json:"minOrderDisplay"`
	ExpiresAtDisplay string `json:"expiresAtDisplay,omitempty"`
	Expired          bool   `json:"expired"`
}

// EventRow is an event package as shown in the event pricing table
type EventRow struct {
	Event
	BasePriceDisplay     string `json:"basePriceDisplay"`
	PricePerGuestDisplay string `json:"pricePerGuestDisplay"`
	MinimumTotalDisplay  string `json:"minimumTotalDisplay"`
}

// PayLaterRow is a deferred payment as shown in the pay-later table
type PayLaterRow struct {
	PayLaterRecord
	AmountDisplay  string `json:"amountDisplay"`
	DueDateDisplay string `json:"dueDateDisplay,omitempty"`
	PaidAtDisplay  string `json:"paidAtDisplay,omitempty"`
}
