package domain

// Product is a single catalog entry as served by the backend. Products are
// immutable once loaded; the catalog is only ever replaced wholesale.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       []string `json:"image"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Sizes       []string `json:"sizes"`
	Bestseller  bool     `json:"bestseller"`
	Date        int64    `json:"date"`
}
