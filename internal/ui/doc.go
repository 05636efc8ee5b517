// Package ui implements the recommendation form as a terminal interface using bubbletea's Elm architecture.
//
// A single [Model] renders the form fields, the submit control, the error banner and the result list:
//  1. User ID : free text
//  2. Judul Lagu : autocompleted from the catalog by title prefix
//  3. Artis : copied from the chosen song (title-first) or picked from the unique artist list (artist-first)
//  4. Genre : free text (title-first) or one of the fixed tags (artist-first)
//  5. Jumlah Rekomendasi : the requested result count
//
// The catalog is fetched once from Init. Submissions run as commands and come back as resolvedMsg values;
// the display state lives in a [form.Machine] so stale responses follow the configured race policy.
//
// Navigation uses tab/shift+tab between fields, up/down/enter in the suggestion lists, ctrl+s to submit and
// ctrl+o to open a result in the browser, with contextual help displayed via charmbracelet/bubbles/help.
package ui
