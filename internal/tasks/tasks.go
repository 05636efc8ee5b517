// package tasks implements batch recommendation runs.
package tasks

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/shared"
)

// BatchEngine submits many form records through one recommendation client.
type BatchEngine struct {
	client form.Client
	logger *log.Logger
}

// NewBatchEngine creates a BatchEngine. A nil logger logs to stderr.
func NewBatchEngine(client form.Client, logger *log.Logger) *BatchEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BatchEngine{client: client, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *BatchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
