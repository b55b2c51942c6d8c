package dto

// ApplyDiscountRequest payload for redeeming a discount tier.
type ApplyDiscountRequest struct {
	Discount int `json:"discount"`
}

// PointsResponse reports the caller's points balance.
type PointsResponse struct {
	Points int `json:"points"`
}

// ApplyDiscountResponse reports the applied percentage and remaining points.
type ApplyDiscountResponse struct {
	Discount      int `json:"discount"`
	UpdatedPoints int `json:"updatedPoints"`
}
