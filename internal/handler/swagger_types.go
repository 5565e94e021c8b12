package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// CartItemRequest represents one line of a cart request body.
type CartItemRequest struct {
	Label       string  `json:"label" example:"Consulting"`
	Quantity    float64 `json:"quantity" example:"2"`
	Price       float64 `json:"price" example:"450"`
	Unit        *int    `json:"unit,omitempty" example:"0"`
	TaxCategory int     `json:"tax_category" example:"1"`
	IsService   *bool   `json:"is_service,omitempty" example:"true"`
}

// CartRequest represents the cart computation request body. Omitted context
// fields take the server defaults.
type CartRequest struct {
	IsB2B            bool              `json:"is_b2b" example:"true"`
	IsTaxInclusive   *bool             `json:"is_tax_inclusive,omitempty" example:"false"`
	IsIntraCommunity bool              `json:"is_intra_community" example:"false"`
	Country          string            `json:"country" example:"FR"`
	Items            []CartItemRequest `json:"items"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// LabelEntry pairs an enum value with its display label.
type LabelEntry struct {
	Value int    `json:"value" example:"1"`
	Label string `json:"label" example:"Taux normal"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
