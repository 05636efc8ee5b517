package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
)

// APIError is a non-2xx reply from the recommendation API.
//
// Its Error text is exactly what the form shows in its error banner.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return FallbackErrorMessage
	}
	return e.Message
}

// Unwrap lets callers match [shared.ErrAPIRequest].
func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// RecommenderClient implements [Recommender] over an [APIService].
type RecommenderClient struct {
	api    *APIService
	logger *log.Logger
}

// NewRecommenderClient creates a client for the catalog and recommendation endpoints.
func NewRecommenderClient(api *APIService, logger *log.Logger) *RecommenderClient {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RecommenderClient{api: api, logger: logger}
}

// FetchCatalog retrieves the song catalog.
func (c *RecommenderClient) FetchCatalog(ctx context.Context) ([]models.Song, error) {
	resp, err := c.api.Get(ctx, CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var songs []models.Song
	if err := resp.Decode(&songs); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnexpectedResponse, err)
	}

	c.logger.Debug("catalog fetched", "songs", len(songs))
	return songs, nil
}

// Recommend submits the request and returns the ranked recommendations.
//
// Transport failures wrap [shared.ErrAPIRequest]; non-2xx replies return an [*APIError]
// carrying the server's message, or [FallbackErrorMessage] when there is none.
func (c *RecommenderClient) Recommend(ctx context.Context, req models.RecommendRequest) ([]models.Recommendation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	requestID := shared.GenerateID()
	logger := shared.WithLogger(c.logger, "request_id", requestID)
	logger.Debug("submitting recommendation request", "user_id", req.UserID, "top_n", req.TopN)

	resp, err := c.api.Post(ctx, RecommendPath, body, WithHeader(RequestIDHeader, requestID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
		logger.Warn("recommendation request rejected", "status", resp.StatusCode, "message", apiErr.Error())
		return nil, apiErr
	}

	var payload models.RecommendResponse
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnexpectedResponse, err)
	}
	if payload.Recommendations == nil {
		return nil, fmt.Errorf("%w: missing recommendations", shared.ErrUnexpectedResponse)
	}

	recs := payload.Recommendations
	logger.Debug("recommendations received", "count", len(recs))
	return recs, nil
}

func errorMessage(resp *APIResponse) string {
	var payload models.ErrorResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
