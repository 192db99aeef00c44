package entity

import "time"

type Listing struct {
	ID           string     `json:"id" firestore:"id"`
	SellerID     string     `json:"seller_id" firestore:"sellerId"`
	MasterItemID string     `json:"master_item_id" firestore:"masterItemId"`
	Description  string     `json:"description,omitempty" firestore:"description,omitempty"`
	ImageURL     string     `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	Price        float64    `json:"price" firestore:"price"`
	Quantity     float64    `json:"quantity" firestore:"quantity"`
	Unit         string     `json:"unit" firestore:"unit"`
	IsActive     bool       `json:"is_active" firestore:"isActive"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" firestore:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"created_at" firestore:"createdAt"`
}
