package domain

import "time"

// Records in this file mirror the upstream API's tables. The upstream owns their lifecycle;
// the console only displays and edits them.

// Product is a flower product listed in the shop
type Product struct {
	ID              ID         `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	OriginalPrice   Amount     `json:"originalPrice"`
	DiscountPercent Amount     `json:"discountPercent"`
	SellingPrice    Amount     `json:"sellingPrice"`
	Stock           int        `json:"stock"`
	Images          []string   `json:"images,omitempty"`
	IsFeatured      bool       `json:"isFeatured"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// OrderStatus represents the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line on an order
type OrderItem struct {
	ProductID ID     `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     Amount `json:"price"`
}

// Order is a shop order placed by a customer
type Order struct {
	ID              ID          `json:"id"`
	OrderNumber     string      `json:"orderNumber,omitempty"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail,omitempty"`
	CustomerPhone   string      `json:"customerPhone,omitempty"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	TotalAmount     Amount      `json:"totalAmount"`
	CouponCode      string      `json:"couponCode,omitempty"`
	Status          OrderStatus `json:"status"`
	PaymentStatus   string      `json:"paymentStatus,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	DeliveryDate    *time.Time  `json:"deliveryDate,omitempty"`
	CreatedAt       *time.Time  `json:"createdAt,omitempty"`
}

// Class is a flower-school workshop
type Class struct {
	ID             ID         `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	InstructorID   ID         `json:"instructorId,omitempty"`
	InstructorName string     `json:"instructorName,omitempty"`
	Category       string     `json:"category,omitempty"`
	Level          string     `json:"level,omitempty"`
	Date           string     `json:"date"`
	StartTime      string     `json:"startTime"`
	EndTime        string     `json:"endTime"`
	Capacity       int        `json:"capacity"`
	EnrolledCount  int        `json:"enrolledCount"`
	Price          Amount     `json:"price"`
	Location       string     `json:"location,omitempty"`
	IsOnline       bool       `json:"isOnline"`
	Image          string     `json:"image,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// DiscountType distinguishes percentage coupons from fixed-amount coupons
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon is a discount code redeemable at checkout
type Coupon struct {
	ID             ID           `json:"id"`
	Code           string       `json:"code"`
	Description    string       `json:"description,omitempty"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountValue  Amount       `json:"discountValue"`
	MinOrderAmount Amount       `json:"minOrderAmount"`
	MaxUses        int          `json:"maxUses"`
	UsedCount      int          `json:"usedCount"`
	ExpiresAt      *time.Time   `json:"expiresAt,omitempty"`
	IsActive       bool         `json:"isActive"`
	CreatedAt      *time.Time   `json:"createdAt,omitempty"`
}

// Instructor teaches flower-school classes
type Instructor struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Experience     int    `json:"experience"`
	Image          string `json:"image,omitempty"`
	IsActive       bool   `json:"isActive"`
}

// Feedback is a customer or student testimonial
type Feedback struct {
	ID         ID         `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Rating     int        `json:"rating"`
	Message    string     `json:"message"`
	IsApproved bool       `json:"isApproved"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

// OfficeTiming is the opening window for one day of the week
type OfficeTiming struct {
	ID        ID     `json:"id"`
	Day       string `json:"day"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
	IsClosed  bool   `json:"isClosed"`
}

// Event is a priced event package (weddings, corporate decor, private workshops)
type Event struct {
	ID            ID     `json:"id"`
	EventType     string `json:"eventType"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	BasePrice     Amount `json:"basePrice"`
	PricePerGuest Amount `json:"pricePerGuest"`
	MinGuests     int    `json:"minGuests"`
	IsActive      bool   `json:"isActive"`
}

// Impact is a headline statistic shown on the public site
type Impact struct {
	ID           ID     `json:"id"`
	Title        string `json:"title"`
	Count        int    `json:"count"`
	Suffix       string `json:"suffix,omitempty"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

// PayLaterStatus is the settlement state of a deferred payment
type PayLaterStatus string

const (
	PayLaterStatusPending PayLaterStatus = "pending"
	PayLaterStatusPaid    PayLaterStatus = "paid"
	PayLaterStatusOverdue PayLaterStatus = "overdue"
)

// PayLaterRecord is an order or enrollment the customer chose to pay for later
type PayLaterRecord struct {
	ID            ID             `json:"id"`
	OrderID       ID             `json:"orderId,omitempty"`
	CustomerName  string         `json:"customerName"`
	CustomerEmail string         `json:"customerEmail,omitempty"`
	CustomerPhone string         `json:"customerPhone,omitempty"`
	Amount        Amount         `json:"amount"`
	DueDate       *time.Time     `json:"dueDate,omitempty"`
	Status        PayLaterStatus `json:"status"`
	PaidAt        *time.Time     `json:"paidAt,omitempty"`
	CreatedAt     *time.Time     `json:"createdAt,omitempty"`
}

// Enrollment is a student's registration for a class
type Enrollment struct {
	ID            ID         `json:"id"`
	ClassID       ID         `json:"classId,omitempty"`
	ClassTitle    string     `json:"classTitle,omitempty"`
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Seats         int        `json:"seats"`
	PaymentStatus string     `json:"paymentStatus,omitempty"`
	EnrolledAt    *time.Time `json:"enrolledAt,omitempty"`
}

// Visitor is an enquiry left through the site's contact or visit form
type Visitor struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Purpose   string     `json:"purpose,omitempty"`
	Message   string     `json:"message,omitempty"`
	VisitDate *time.Time `json:"visitDate,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Subscriber is a newsletter sign-up
type Subscriber struct {
	ID           ID         `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	SubscribedAt *time.Time `json:"subscribedAt,omitempty"`
}
