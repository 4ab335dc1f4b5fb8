package model

type PromoRequest struct {
	Code         string `json:"code"`
	CurrentPrice int64  `json:"currentPrice"`
}

// PromoResult is the outcome of one successful promo validation.
type PromoResult struct {
	Code       string `json:"code"`
	Discount   int64  `json:"discount"`
	FinalPrice int64  `json:"finalPrice"`
	Message    string `json:"message"`
}
