package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/formatter"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
	"github.com/desertthunder/lagu/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Recommend submits the form once from flags, prompting for whatever is missing.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	variant, err := r.variant()
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	// The single catalog fetch; a failure leaves the option lists empty.
	r.loader.Load(ctx)

	f := form.New(variant, r.config.Form.DefaultCount)
	f.SetCatalog(r.loader.Snapshot())
	if err := applyFlags(f, cmd); err != nil {
		return err
	}

	interactive := !cmd.Bool("no-input")
	if interactive {
		if err := promptMissing(f); err != nil {
			return err
		}
	}

	machine := form.NewMachine(r.racePolicy())
	sub, err := machine.Submit(f.Values())
	if err != nil {
		return err
	}
	r.logger.Debug("submitting", "request", sub.Request)

	var state form.State
	send := func(ctx context.Context) error {
		state, _ = machine.Execute(ctx, r.client, sub)
		return nil
	}
	if interactive {
		err = spinner.New().Title("Mencari rekomendasi...").Context(ctx).ActionWithErr(send).Run()
	} else {
		err = send(ctx)
	}
	if err != nil {
		return err
	}

	if state.Status == form.ShowingError {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, state.Message)
	}

	report := &formatter.Report{Request: sub.Request, Recommendations: state.Results}
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(report, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("recommendations saved", "path", written, "count", len(state.Results))
		return r.writePlain("✓ %d rekomendasi disimpan ke %s\n", len(state.Results), written)
	}

	out, err := formatter.Export(report, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", out)
}

// applyFlags fills the form the way a user would: the seed song first and the
// artist second in title-first, the reverse in artist-first.
func applyFlags(f *form.Form, cmd *cli.Command) error {
	f.SetListenerID(strings.TrimSpace(cmd.String("user")))
	if cmd.IsSet("count") {
		f.SetCount(cmd.String("count"))
	}
	if err := f.SetGenre(cmd.String("genre")); err != nil {
		return err
	}

	title, artist := cmd.String("title"), cmd.String("artist")
	if f.Variant() == form.ArtistFirst {
		f.SetArtist(artist)
		if title != "" {
			song, ok := catalog.FindByTitle(f.SongOptions(""), title)
			if !ok {
				return fmt.Errorf("%w: %q is not a song by %q", shared.ErrInvalidArgument, title, artist)
			}
			f.SelectSong(song)
		}
		return nil
	}

	if title != "" {
		song, ok := catalog.FindByTitle(f.SongOptions(""), title)
		if !ok {
			song = models.Song{Title: title}
		}
		f.SelectSong(song)
	}
	if artist != "" {
		f.SetArtist(artist)
	}
	return nil
}

// promptMissing asks for every empty required field.
func promptMissing(f *form.Form) error {
	if f.Values().ListenerID == "" {
		var id string
		if err := huh.NewInput().Title("User ID").Value(&id).Run(); err != nil {
			return err
		}
		f.SetListenerID(strings.TrimSpace(id))
	}

	if f.Variant() == form.ArtistFirst {
		return promptArtistFirst(f)
	}
	return promptTitleFirst(f)
}

func promptTitleFirst(f *form.Form) error {
	if f.Values().SongTitle == "" {
		if songs := f.SongOptions(""); len(songs) > 0 {
			var song models.Song
			err := huh.NewSelect[models.Song]().
				Height(10).
				Title("Judul Lagu").
				Options(songOptions(songs, true)...).
				Filtering(true).
				Value(&song).
				Run()
			if err != nil {
				return err
			}
			f.SelectSong(song)
		} else {
			var title string
			if err := huh.NewInput().Title("Judul Lagu").Value(&title).Run(); err != nil {
				return err
			}
			f.SelectSong(models.Song{Title: strings.TrimSpace(title)})
		}
	}

	if f.Values().Artist == "" {
		var artist string
		if err := huh.NewInput().Title("Artis").Value(&artist).Run(); err != nil {
			return err
		}
		f.SetArtist(strings.TrimSpace(artist))
	}

	if f.Values().Genre == "" {
		var genre string
		if err := huh.NewInput().Title("Genre").Value(&genre).Run(); err != nil {
			return err
		}
		f.SetGenre(strings.TrimSpace(genre))
	}
	return nil
}

func promptArtistFirst(f *form.Form) error {
	if f.Values().Artist == "" {
		if artists := f.ArtistOptions(); len(artists) > 0 {
			var artist string
			err := huh.NewSelect[string]().
				Height(10).
				Title("Artis").
				Options(huh.NewOptions(artists...)...).
				Filtering(true).
				Value(&artist).
				Run()
			if err != nil {
				return err
			}
			f.SetArtist(artist)
		}
	}

	if f.Values().SongTitle == "" {
		if songs := f.SongOptions(""); len(songs) > 0 {
			var song models.Song
			err := huh.NewSelect[models.Song]().
				Height(10).
				Title("Judul Lagu").
				Options(songOptions(songs, false)...).
				Filtering(true).
				Value(&song).
				Run()
			if err != nil {
				return err
			}
			f.SelectSong(song)
		}
	}

	if f.Values().Genre == "" {
		var genre string
		err := huh.NewSelect[string]().
			Title("Genre").
			Options(huh.NewOptions(f.GenreOptions()...)...).
			Value(&genre).
			Run()
		if err != nil {
			return err
		}
		if err := f.SetGenre(genre); err != nil {
			return err
		}
	}
	return nil
}

func songOptions(songs []models.Song, withArtist bool) []huh.Option[models.Song] {
	options := make([]huh.Option[models.Song], len(songs))
	for i, s := range songs {
		label := s.Title
		if withArtist {
			label = s.String()
		}
		options[i] = huh.NewOption(label, s)
	}
	return options
}

// RecommendBatch submits every row of a CSV file through the batch engine.
func (r *Runner) RecommendBatch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	queries, err := tasks.ReadQueriesFile(cmd.String("file"))
	if err != nil {
		return err
	}

	engine := tasks.NewBatchEngine(r.client, r.logger)
	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.writePlain("%s\n", u.Message)
		}
	}()

	result, err := engine.Run(ctx, progress, queries, tasks.BatchOpts{
		Format:     format,
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done

	if result != nil {
		r.writePlainHeader("Batch selesai")
		r.writePlain("Total:    %d\n", result.Total)
		r.writePlain("Berhasil: %d\n", result.Succeeded)
		r.writePlain("Gagal:    %d\n", result.Failed)
		for _, item := range result.Results {
			if !item.Success {
				r.writePlain("  ✗ %s: %s\n", item.Label(), item.Error)
			}
		}
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
	}
	return err
}
