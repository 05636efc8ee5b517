// package services defines interface Recommender for interacting with the recommendation API
package services

import (
	"context"

	"github.com/desertthunder/lagu/internal/models"
)

// Recommender is the remote collaborator behind the recommendation form.
type Recommender interface {
	// FetchCatalog retrieves the full song catalog from GET /lagu.
	FetchCatalog(ctx context.Context) ([]models.Song, error)

	// Recommend posts one form submission to POST /recommend and returns the
	// ranked rows in the order received.
	Recommend(ctx context.Context, req models.RecommendRequest) ([]models.Recommendation, error)
}

const (
	CatalogPath   = "/lagu"
	RecommendPath = "/recommend"

	// RequestIDHeader carries a per-request identifier for correlating client and server logs.
	RequestIDHeader = "X-Request-ID"

	// FallbackErrorMessage is shown when a failed response carries no message.
	FallbackErrorMessage = "Server Error"
)
