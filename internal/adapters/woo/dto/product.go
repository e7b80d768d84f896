package dto

type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type ProductImage struct {
	ID   int64  `json:"id,omitempty"`
	Src  string `json:"src,omitempty"`
	Name string `json:"name,omitempty"`
}

type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Sku           string            `json:"sku"`
	Status        string            `json:"status"`
	RegularPrice  string            `json:"regular_price"`
	StockQuantity *int              `json:"stock_quantity"`
	Categories    []ProductCategory `json:"categories"`
	Images        []ProductImage    `json:"images"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
