package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// Catalog prints the songs (or unique artists) from GET /lagu.
//
// Unlike the forms, a failed fetch is reported as an error here.
func (r *Runner) Catalog(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	if err := r.loader.Load(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	songs := r.loader.Songs()
	if artist := cmd.String("artist"); artist != "" {
		songs = catalog.FilterByArtist(songs, artist)
	}
	if prefix := cmd.String("prefix"); prefix != "" {
		songs = catalog.FilterByTitlePrefix(songs, prefix)
	}

	if cmd.Bool("artists") {
		artists := catalog.UniqueArtists(songs)
		if cmd.Bool("json") {
			return r.writeJSON(artists, cmd.Bool("pretty"))
		}

		r.writePlainHeader("Artis")
		for _, a := range artists {
			r.writePlain("%s\n", a)
		}
		r.writePlainln("%s artis", humanize.Comma(int64(len(artists))))
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Daftar Lagu")
	for i, s := range songs {
		r.writePlain("%3d. %s\n", i+1, s)
	}
	r.writePlainln("%s lagu", humanize.Comma(int64(len(songs))))
	return nil
}
