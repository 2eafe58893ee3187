package domain

// PaymentMethod selects one of the three checkout paths.
type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "cod"
	PaymentStripe   PaymentMethod = "stripe"
	PaymentRazorpay PaymentMethod = "razorpay"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// Address holds the shipping form fields collected at checkout.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// OrderItem is a catalog product snapshot with the chosen size and quantity
// attached, as submitted inside an order.
type OrderItem struct {
	Product
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// OrderDraft is built once at submission time from cart x catalog x address
// and never mutated afterwards.
type OrderDraft struct {
	Receipt string      `json:"receipt"`
	Address Address     `json:"address"`
	Items   []OrderItem `json:"items"`
	Amount  float64     `json:"amount"`
}

// Order is a previously placed order as returned by the backend.
type Order struct {
	ID            string      `json:"_id"`
	Items         []OrderItem `json:"items"`
	Amount        float64     `json:"amount"`
	Address       Address     `json:"address"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Payment       bool        `json:"payment"`
	Date          int64       `json:"date"`
}

// HistoryRow is one purchased line item annotated with its parent order's
// status, payment method and date, for flat display.
type HistoryRow struct {
	OrderItem
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	Payment       bool   `json:"payment"`
	Date          int64  `json:"date"`
}

// RazorpayOrder is the provider-side order handed to the embedded payment
// widget.
type RazorpayOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// RazorpayPayment carries the widget callback fields posted back for
// verification.
type RazorpayPayment struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
