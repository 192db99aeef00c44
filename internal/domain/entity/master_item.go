package entity

import "time"

// MasterItem is a catalogue entry shared by every listing of the same produce.
type MasterItem struct {
	ID        string    `json:"id" firestore:"id"`
	Name      string    `json:"name" firestore:"name"`
	Category  string    `json:"category,omitempty" firestore:"category,omitempty"`
	ImageURL  string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
