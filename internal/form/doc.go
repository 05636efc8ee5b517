// Package form implements the recommendation form independently of any front end.
//
// # Fields
//
// [Form] owns the single [models.FormState] record and applies the cross-field rules of the chosen [Variant]:
//   - [TitleFirst] : songs are offered by case-insensitive title prefix; choosing one fills title and artist,
//     clearing it empties both
//   - [ArtistFirst] : artists come from the catalog, songs are restricted to the chosen artist, changing the
//     artist empties the title, and genre is one of [Genres]
//
// # Submission
//
// [Machine] holds the display [State], a tagged union of [Idle], [Submitting], [ShowingResults] and
// [ShowingError]. Submit clears earlier results and errors and returns a [Submission]; Resolve applies the
// outcome according to the [RacePolicy]. Submitting while a request is in flight is allowed.
//
// The count is converted with [ParseCount], which reads a leading base-10 integer and otherwise yields NaN.
package form
