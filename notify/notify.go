package notify

import (
	"fmt"
	"log/slog"
	"strings"
)

// maxListedLabels bounds how many unresolved labels a summary shows.
const maxListedLabels = 20

// Notifier receives user-facing notifications. Implementations must not
// block.
type Notifier interface {
	Info(title, message string)
	Warn(title, message string)
	Error(title, message string)
}

// Nop is a Notifier that discards everything.
type Nop struct{}

func (Nop) Info(title, message string)  {}
func (Nop) Warn(title, message string)  {}
func (Nop) Error(title, message string) {}

// Slog routes notifications to a structured logger.
type Slog struct {
	Log *slog.Logger
}

// NewSlog creates a notifier over log. A nil log uses the default logger.
func NewSlog(log *slog.Logger) Slog {
	if log == nil {
		log = slog.Default()
	}
	return Slog{Log: log}
}

func (s Slog) Info(title, message string) {
	s.Log.Info(message, "title", title)
}

func (s Slog) Warn(title, message string) {
	s.Log.Warn(message, "title", title)
}

func (s Slog) Error(title, message string) {
	s.Log.Error(message, "title", title)
}

// EnrichmentSummary sends the completion notification for a tree
// enrichment run. A full success is an information notification; otherwise
// the first 20 unresolved labels are listed (followed by an ellipsis when
// truncated), with the total whenever more than one label is unresolved,
// noting deletion when it was requested.
func EnrichmentSummary(n Notifier, unresolved []string, deleted bool) {
	const title = "Taxonomy Tool Completed"
	if len(unresolved) == 0 {
		n.Info(title, "taxonomy resolution successfully completed")
		return
	}

	var sb strings.Builder
	sb.WriteString("not all taxonomies could be resolved\n")
	if len(unresolved) == 1 {
		if deleted {
			sb.WriteString("the following taxonomy was not found and deleted (if external):\n")
		} else {
			sb.WriteString("the following taxonomy was not found:\n")
		}
	} else {
		if deleted {
			fmt.Fprintf(&sb, "the following taxonomies were not found and deleted (if external) (total: %d):\n", len(unresolved))
		} else {
			fmt.Fprintf(&sb, "the following taxonomies were not found (total: %d):\n", len(unresolved))
		}
	}
	for i, label := range unresolved {
		if i == maxListedLabels {
			sb.WriteString("...")
			break
		}
		sb.WriteString(label)
		sb.WriteString("\n")
	}
	n.Warn(title, strings.TrimRight(sb.String(), "\n"))
}
