package models

import "time"

type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// CategoryRef is the embedded category summary the API attaches to products.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID            int         `json:"id"`
	CategoryID    int         `json:"category_id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   *string     `json:"description"`
	Price         string      `json:"price"`
	SalePrice     *string     `json:"sale_price,omitempty"`
	Stock         int         `json:"stock"`
	IsFeatured    bool        `json:"is_featured"`
	IsUpcoming    bool        `json:"is_upcoming"`
	AvailableFrom *string     `json:"available_from"`
	ImageURL      *string     `json:"image_url"`
	Rating        float64     `json:"rating,omitempty"`
	ReviewsCount  int         `json:"reviews_count,omitempty"`
	Category      CategoryRef `json:"category"`
}

type ProductImage struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type ProductDetail struct {
	Product
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Images    []ProductImage `json:"images"`
}

type Slider struct {
	ID       int     `json:"id"`
	Title    *string `json:"title"`
	LinkURL  *string `json:"link_url"`
	Position int     `json:"position"`
	ImageURL *string `json:"image_url"`
}

type User struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

type OrderStatus string

const (
	OrderStatusPending             OrderStatus = "pending"
	OrderStatusPaymentVerification OrderStatus = "payment_verification"
	OrderStatusConfirmed           OrderStatus = "confirmed"
	OrderStatusProcessing          OrderStatus = "processing"
	OrderStatusShipped             OrderStatus = "shipped"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

// Order is server-owned; the client only ever reads it back.
type Order struct {
	ID                   int         `json:"id"`
	OrderNumber          string      `json:"order_number"`
	ProductID            int         `json:"product_id"`
	Quantity             int         `json:"quantity"`
	UnitPrice            string      `json:"unit_price"`
	TotalAmount          string      `json:"total_amount"`
	Status               OrderStatus `json:"status"`
	ShippingAddress      string      `json:"shipping_address"`
	PhoneNumber          string      `json:"phone_number"`
	Notes                string      `json:"notes,omitempty"`
	PaymentVerifiedAt    *string     `json:"payment_verified_at,omitempty"`
	AdminNotes           string      `json:"admin_notes,omitempty"`
	CreatedAt            string      `json:"created_at"`
	UpdatedAt            string      `json:"updated_at"`
	ProductName          string      `json:"product_name"`
	ProductSlug          string      `json:"product_slug"`
	ProductImage         string      `json:"product_image"`
	CategoryName         string      `json:"category_name"`
	PaymentScreenshotURL string      `json:"payment_screenshot_url,omitempty"`
}

type OrderDetail struct {
	Order
	UserID int `json:"user_id"`
}

// CartItem lives client-side only: a snapshot of the product plus the
// chosen quantity and when it entered the cart.
type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}
