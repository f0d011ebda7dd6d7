package domain

import "time"

// ProductRequest is the product form. Images holds already-encoded images (data URLs or
// upstream URLs) that are kept; new files arrive as multipart parts and are appended.
type ProductRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Description     string   `json:"description" validate:"max=5000"`
	Categories      []string `json:"categories" validate:"max=10"`
	OriginalPrice   float64  `json:"originalPrice" validate:"gt=0"`
	DiscountPercent float64  `json:"discountPercent" validate:"gte=0,lte=100"`
	SellingPrice    *float64 `json:"sellingPrice,omitempty" validate:"omitempty,gte=0"`
	Stock           int      `json:"stock" validate:"gte=0"`
	Images          []string `json:"images"`
	IsFeatured      bool     `json:"isFeatured"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

// OrderStatusRequest changes an order's fulfilment status
type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// ClassRequest is the workshop form
type ClassRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    string  `json:"description" validate:"max=5000"`
	InstructorID   string  `json:"instructorId"`
	InstructorName string  `json:"instructorName" validate:"max=200"`
	Category       string  `json:"category" validate:"max=100"`
	Level          string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime        string  `json:"endTime" validate:"required,datetime=15:04"`
	Capacity       int     `json:"capacity" validate:"gte=1"`
	Price          float64 `json:"price" validate:"gte=0"`
	Location       string  `json:"location" validate:"max=300"`
	IsOnline       bool    `json:"isOnline"`
	Image          string  `json:"image"`
}

// CouponRequest is the coupon form; the code field is required
type CouponRequest struct {
	Code           string       `json:"code" validate:"required,min=3,max=30"`
	Description    string       `json:"description" validate:"max=500"`
	DiscountType   DiscountType `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue  float64      `json:"discountValue" validate:"gt=0"`
	MinOrderAmount float64      `json:"minOrderAmount" validate:"gte=0"`
	MaxUses        int          `json:"maxUses" validate:"gte=0"`
	ExpiresAt      *time.Time   `json:"expiresAt,omitempty"`
	IsActive       *bool        `json:"isActive,omitempty"`
}

// CouponPreviewRequest asks what a coupon would take off a given order amount
type CouponPreviewRequest struct {
	DiscountType   DiscountType `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue  float64      `json:"discountValue" validate:"gt=0"`
	MinOrderAmount float64      `json:"minOrderAmount" validate:"gte=0"`
	OrderAmount    float64      `json:"orderAmount" validate:"gte=0"`
}

// InstructorRequest is the instructor form
type InstructorRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"max=30"`
	Specialization string `json:"specialization" validate:"max=200"`
	Bio            string `json:"bio" validate:"max=5000"`
	Experience     int    `json:"experience" validate:"gte=0,lte=80"`
	Image          string `json:"image"`
	IsActive       *bool  `json:"isActive,omitempty"`
}

// FeedbackApprovalRequest publishes or hides a testimonial
type FeedbackApprovalRequest struct {
	Approved bool `json:"approved"`
}

// OfficeTimingRequest updates one day's opening window
type OfficeTimingRequest struct {
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	OpenTime  string `json:"openTime" validate:"omitempty,datetime=15:04"`
	CloseTime string `json:"closeTime" validate:"omitempty,datetime=15:04"`
	IsClosed  bool   `json:"isClosed"`
}

// EventRequest is the event pricing form
type EventRequest struct {
	EventType     string  `json:"eventType" validate:"required,max=100"`
	Title         string  `json:"title" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=5000"`
	BasePrice     float64 `json:"basePrice" validate:"gte=0"`
	PricePerGuest float64 `json:"pricePerGuest" validate:"gte=0"`
	MinGuests     int     `json:"minGuests" validate:"gte=0"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// ImpactRequest is the impact statistic form
type ImpactRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Count        int    `json:"count" validate:"gte=0"`
	Suffix       string `json:"suffix" validate:"max=10"`
	Description  string `json:"description" validate:"max=1000"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
}

// LoginRequest carries staff credentials forwarded to the upstream login endpoint
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by the upstream login endpoint
type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    ID     `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// PricingPreview is the reactive price shown beside the product form
type PricingPreview struct {
	OriginalPrice         float64 `json:"originalPrice"`
	DiscountPercent       float64 `json:"discountPercent"`
	DiscountAmount        float64 `json:"discountAmount"`
	SellingPrice          float64 `json:"sellingPrice"`
	OriginalPriceDisplay  string  `json:"originalPriceDisplay"`
	DiscountAmountDisplay string  `json:"discountAmountDisplay"`
	SellingPriceDisplay   string  `json:"sellingPriceDisplay"`
}

// CouponPreview is the outcome of applying a coupon to an order amount
type CouponPreview struct {
	OrderAmount    float64 `json:"orderAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
	Eligible       bool    `json:"eligible"`
	Reason         string  `json:"reason,omitempty"`
	FinalDisplay   string  `json:"finalDisplay"`
}

// EncodedImage is the result of preparing an uploaded image
type EncodedImage struct {
	DataURL     string `json:"dataUrl"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SizeBytes   int    `json:"sizeBytes"`
	Resized     bool   `json:"resized"`
}

// CategoryOption is one selectable entry of the flattened category table
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Group string `json:"group"`
}

// DashboardSummary counts records across the console panels
type DashboardSummary struct {
	Products        int `json:"products"`
	ActiveProducts  int `json:"activeProducts"`
	OutOfStock      int `json:"outOfStock"`
	Orders          int `json:"orders"`
	PendingOrders   int `json:"pendingOrders"`
	Classes         int `json:"classes"`
	UpcomingClasses int `json:"upcomingClasses"`
	ActiveCoupons   int `json:"activeCoupons"`
	PendingFeedback int `json:"pendingFeedback"`
	PayLaterPending int `json:"payLaterPending"`
	PayLaterOverdue int `json:"payLaterOverdue"`
	Enrollments     int `json:"enrollments"`
}

// ListMeta describes a list response
type ListMeta struct {
	Count int `json:"count"`
}

// Envelope is the console's response body. Mutations return the affected record in Data
// and the refreshed list in Items.
type Envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Items interface{} `json:"items,omitempty"`
	Meta  *ListMeta   `json:"meta,omitempty"`
	Toast *Toast      `json:"toast,omitempty"`
}

// PaginatedResponse is used for console-local lists backed by the database
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPage wraps one page of rows; size must be positive
func NewPage(data any, total int64, page, size int) PaginatedResponse {
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
}
