package bulk

import (
	"context"

	"github.com/aleister1102/notegrab/internal/extractor"
	"github.com/aleister1102/notegrab/internal/models"
	"github.com/rs/zerolog"
)

// Extractor is the single operation the dispatcher needs from the extraction client
type Extractor interface {
	Extract(ctx context.Context, url string, download bool) ([]models.Post, error)
}

// ExtractorClient is an Extractor scoped to one batch
type ExtractorClient interface {
	Extractor
	Close() error
}

// ClientFactory builds the scoped client for a batch
type ClientFactory func(opts extractor.Options) (ExtractorClient, error)

// NewClientFactory returns a factory producing extractor.Client instances
func NewClientFactory(logger zerolog.Logger) ClientFactory {
	return func(opts extractor.Options) (ExtractorClient, error) {
		client, err := extractor.New(opts, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
