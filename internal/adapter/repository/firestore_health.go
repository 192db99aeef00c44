package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreHealth checks that Firestore answers a trivial query.
type FirestoreHealth struct {
	client *firestore.Client
}

func NewFirestoreHealth(client *firestore.Client) *FirestoreHealth {
	return &FirestoreHealth{client: client}
}

func (h *FirestoreHealth) Ping(ctx context.Context) error {
	iter := h.client.Collection("users").Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return nil
	}
	return err
}
