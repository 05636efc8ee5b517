// Package services talks to the remote recommendation API.
//
// # Raw Client
//
// [APIService] issues GET and POST requests against a normalised base URL and returns an [APIResponse]
// with the status, headers and body. Non-2xx statuses are not errors at this layer.
//
// # Recommender
//
// [Recommender] is the collaborator behind the form. [RecommenderClient] implements it:
//   - FetchCatalog : GET /lagu, decoded into [models.Song]
//   - Recommend : POST /recommend with a [models.RecommendRequest]
//
// Every recommendation request carries a fresh X-Request-ID.
//
// # Error Handling
//
//   - [shared.ErrAPIRequest] : transport failure or non-2xx catalog reply
//   - [APIError] : non-2xx recommendation reply; Error() is the server message or "Server Error"
//   - [shared.ErrUnexpectedResponse] : a 2xx reply that cannot be decoded
//
// There are no retries and, unless configured on the http.Client, no timeouts.
package services
