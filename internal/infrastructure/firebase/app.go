package firebase

import (
	"context"
	"fmt"
	"os"

	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"surplusmarket/pkg/config"
	"surplusmarket/pkg/logger"
)

// ClientOption picks service account credentials, preferring the inline JSON
// over a file path. It returns nil when neither is configured so the SDK
// falls back to application default credentials.
func ClientOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}

	if cfg.FirebaseServiceAccountPath != "" {
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account file does not exist: %s", cfg.FirebaseServiceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		return option.WithCredentialsFile(cfg.FirebaseServiceAccountPath), nil
	}

	logger.Info("Using application default credentials for Firebase")
	return nil, nil
}

func NewApp(ctx context.Context, cfg *config.Config) (*fbapp.App, []option.ClientOption, error) {
	opt, err := ClientOption(cfg)
	if err != nil {
		return nil, nil, err
	}

	var opts []option.ClientOption
	if opt != nil {
		opts = append(opts, opt)
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	return app, opts, nil
}
