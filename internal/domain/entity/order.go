package entity

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions lists every legal status change. Terminal statuses map to nothing.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusAccepted, OrderStatusRejected, OrderStatusCancelled},
	OrderStatusAccepted: {OrderStatusCompleted, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusRejected, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

type ContactMethod string

const (
	ContactMethodPickup   ContactMethod = "pickup"
	ContactMethodDelivery ContactMethod = "delivery"
	ContactMethodBoth     ContactMethod = "both"
)

func (m ContactMethod) Valid() bool {
	switch m {
	case ContactMethodPickup, ContactMethodDelivery, ContactMethodBoth:
		return true
	}
	return false
}

// Order is a buyer's request to purchase a quantity of a listing. Listing
// details are snapshotted at creation so later listing edits do not change it.
type Order struct {
	ID           string `json:"id" firestore:"id"`
	ListingID    string `json:"listing_id" firestore:"listingId"`
	BuyerID      string `json:"buyer_id" firestore:"buyerId"`
	SellerID     string `json:"seller_id" firestore:"sellerId"`
	MasterItemID string `json:"master_item_id" firestore:"masterItemId"`

	Quantity     float64 `json:"quantity" firestore:"quantity"`
	Unit         string  `json:"unit" firestore:"unit"`
	PricePerUnit float64 `json:"price_per_unit" firestore:"pricePerUnit"`
	TotalAmount  float64 `json:"total_amount" firestore:"totalAmount"`

	ContactMethod   ContactMethod `json:"contact_method" firestore:"contactMethod"`
	DeliveryAddress string        `json:"delivery_address,omitempty" firestore:"deliveryAddress,omitempty"`
	PreferredTime   string        `json:"preferred_time,omitempty" firestore:"preferredTime,omitempty"`
	BuyerMessage    string        `json:"buyer_message,omitempty" firestore:"buyerMessage,omitempty"`
	BuyerPhone      string        `json:"buyer_phone" firestore:"buyerPhone"`
	BuyerName       string        `json:"buyer_name" firestore:"buyerName"`

	Status          OrderStatus `json:"status" firestore:"status"`
	SellerResponse  string      `json:"seller_response,omitempty" firestore:"sellerResponse,omitempty"`
	RejectionReason string      `json:"rejection_reason,omitempty" firestore:"rejectionReason,omitempty"`
	RespondedAt     *time.Time  `json:"responded_at,omitempty" firestore:"respondedAt,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CompletionNotes string      `json:"completion_notes,omitempty" firestore:"completionNotes,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (o *Order) IsParticipant(userID string) bool {
	return userID != "" && (o.BuyerID == userID || o.SellerID == userID)
}

// Counterparty returns the other side of the order, or "" for outsiders.
func (o *Order) Counterparty(userID string) string {
	switch userID {
	case o.BuyerID:
		return o.SellerID
	case o.SellerID:
		return o.BuyerID
	}
	return ""
}

// RoleOf reports "buyer" or "seller" for a participant.
func (o *Order) RoleOf(userID string) string {
	switch userID {
	case o.BuyerID:
		return "buyer"
	case o.SellerID:
		return "seller"
	}
	return ""
}
