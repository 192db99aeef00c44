package entity

import "time"

// User is a marketplace account. TokenIdentifier is the stable subject of the
// caller's auth token and is how requests are mapped back to a user.
type User struct {
	ID              string    `json:"id" firestore:"id"`
	TokenIdentifier string    `json:"-" firestore:"tokenIdentifier"`
	Email           string    `json:"email,omitempty" firestore:"email,omitempty"`
	Name            string    `json:"name" firestore:"name"`
	Phone           string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	ImageURL        string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	ShopName        string    `json:"shop_name,omitempty" firestore:"shopName,omitempty"`
	ShopAddress     string    `json:"shop_address,omitempty" firestore:"shopAddress,omitempty"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
}

// DisplayName prefers the shop name for sellers.
func (u *User) DisplayName() string {
	if u.ShopName != "" {
		return u.ShopName
	}
	return u.Name
}
