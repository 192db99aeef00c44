package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient verifies Firebase ID tokens. The token UID is used as
// the caller's token identifier.
type FirebaseAuthClient struct {
	client       *auth.Client
	checkRevoked bool
}

func NewFirebaseAuthClient(client *auth.Client, checkRevoked bool) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:       client,
		checkRevoked: checkRevoked,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	var (
		result *auth.Token
		err    error
	)
	if f.checkRevoked {
		// Costs one extra Auth backend call per request.
		result, err = f.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	} else {
		result, err = f.client.VerifyIDToken(ctx, token)
	}
	if err != nil {
		return "", err
	}

	return result.UID, nil
}
