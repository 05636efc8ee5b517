// Package models defines the data carried between the recommendation form, the catalog and the remote API.
//
// Catalog data:
//   - [Song] : a catalog entry, only title and artist are read
//
// Form data:
//   - [FormState] : the single in-memory record bound to the form controls
//   - [RecommendRequest] : the JSON body posted to the recommendation endpoint
//   - [TopN] : the requested count, which may be "not a number"
//
// Results:
//   - [Recommendation] : one ranked row returned by the API
//   - [RecommendResponse] / [ErrorResponse] : success and failure envelopes
//
// Wire names follow the collaborator API exactly, including the spaced keys "Judul Lagu", "Artis" and "Skor Hybrid".
package models
