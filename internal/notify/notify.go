// Package notify provides cross-platform desktop notifications for the
// launcher, using github.com/gen2brain/beeep.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/emberlauncher/ember/internal/constants"
	"github.com/emberlauncher/ember/internal/events"
	"github.com/emberlauncher/ember/internal/logging"
)

// Notifier raises desktop notifications for background outcomes.
type Notifier struct {
	logger  *logging.Logger
	enabled bool
	mu      sync.RWMutex
}

// NewNotifier creates a notifier.
func NewNotifier(enabled bool, logger *logging.Logger) *Notifier {
	return &Notifier{
		logger:  logger,
		enabled: enabled,
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// PropertiesApplied notifies that meta server properties were applied.
func (n *Notifier) PropertiesApplied(count int) {
	if !n.IsEnabled() {
		return
	}
	message := fmt.Sprintf("%d meta server properties were applied", count)
	if count == 1 {
		message = "1 meta server property was applied"
	}
	n.send("Properties Applied", message)
}

// PropertiesFailed notifies that the meta server property download failed.
func (n *Notifier) PropertiesFailed(reason string) {
	if !n.IsEnabled() {
		return
	}
	n.send("Properties Download Failed", truncate(reason, 120))
}

// PasteUploaded notifies that a log excerpt was shared.
func (n *Notifier) PasteUploaded(shareURL string) {
	if !n.IsEnabled() {
		return
	}
	n.send("Log Uploaded", shareURL)
}

func (n *Notifier) send(title, message string) {
	if err := beeep.Notify(constants.AppName+" - "+title, message, ""); err != nil {
		// Notifications are best effort; a missing notification daemon is
		// not worth surfacing to the user.
		n.logger.Debug().Err(err).Str("title", title).Msg("failed to send desktop notification")
	}
}

// Watch subscribes to the event bus and raises notifications for property
// apply outcomes and paste uploads until the context is cancelled.
func (n *Notifier) Watch(ctx context.Context, bus *events.EventBus) {
	applied := bus.Subscribe(events.EventPropertiesApplied)
	failed := bus.Subscribe(events.EventPropertiesFailed)
	uploaded := bus.Subscribe(events.EventPasteUploaded)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-applied:
				if !ok {
					return
				}
				if e, cast := ev.(*events.PropertiesAppliedEvent); cast {
					n.PropertiesApplied(len(e.Applied))
				}
			case ev, ok := <-failed:
				if !ok {
					return
				}
				if e, cast := ev.(*events.PropertiesFailedEvent); cast {
					n.PropertiesFailed(e.Reason)
				}
			case ev, ok := <-uploaded:
				if !ok {
					return
				}
				if e, cast := ev.(*events.PasteUploadedEvent); cast {
					n.PasteUploaded(e.ShareURL)
				}
			}
		}
	}()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
