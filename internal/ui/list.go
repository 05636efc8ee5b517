package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/lagu/internal/models"
)

var (
	_ list.Item = resultItem{}
)

// resultItem wraps [models.Recommendation] to implement [list.Item].
type resultItem struct {
	rec models.Recommendation
}

func (i resultItem) FilterValue() string { return i.rec.SongTitle }
func (i resultItem) Title() string       { return i.rec.Label() }
func (i resultItem) Description() string { return "Skor: " + i.rec.Score() }

func resultItems(recs []models.Recommendation) []list.Item {
	items := make([]list.Item, len(recs))
	for i, rec := range recs {
		items[i] = resultItem{rec: rec}
	}
	return items
}

func newResultList(width, height int) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Rekomendasi"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}
