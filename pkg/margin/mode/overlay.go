package mode

import (
	"context"

	"github.com/marginlab/marginalia/pkg/errors"
	"github.com/marginlab/marginalia/pkg/margin"
	"github.com/marginlab/marginalia/pkg/observability"
)

// Reasons for closing the overlay.
const (
	CloseOutsideClick = "outside-click"
	CloseControl      = "close-control"
	CloseCancelKey    = "cancel-key"
	CloseModeChange   = "mode-change"
	CloseReplaced     = "replaced"
)

// overlayState is the Closed → Open(item) → Closed sub-state-machine.
// At most one item is open at a time.
type overlayState struct {
	open    bool
	itemID  string
	content string
}

// OpenOverlay shows the item's content in the single-item overlay,
// replacing any currently open item. The previous item is fully closed,
// its highlight state detached, before the new one opens. Opening an item
// with no resolvable content is a no-op: the overlay does not appear empty.
func (c *Controller) OpenOverlay(item *margin.Item) error {
	if item == nil || item.Content == "" {
		return errors.New(errors.ErrCodeOverlayEmpty, "item has no content to show")
	}

	c.mu.Lock()
	if c.mode != ModeModal {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeUnsupported, "overlay is only available in modal mode")
	}
	if c.overlay.open {
		c.closeOverlayLocked(CloseReplaced)
	}
	c.overlay = overlayState{open: true, itemID: item.ID, content: item.Content}
	c.mu.Unlock()

	observability.Mode().OnOverlayOpen(context.Background(), item.ID)
	c.logger.Debug("overlay open", "id", item.ID)
	return nil
}

// CloseOverlay closes the overlay if open. reason should be one of the
// Close* constants; callers map outside clicks, the close control, and the
// cancellation key onto it.
func (c *Controller) CloseOverlay(reason string) {
	c.mu.Lock()
	c.closeOverlayLocked(reason)
	c.mu.Unlock()
}

// closeOverlayLocked closes the overlay while holding c.mu.
func (c *Controller) closeOverlayLocked(reason string) {
	if !c.overlay.open {
		return
	}
	id := c.overlay.itemID
	c.overlay = overlayState{}
	c.logger.Debug("overlay close", "id", id, "reason", reason)
	// Hook fires under the lock; hook implementations must not call back
	// into the controller.
	observability.Mode().OnOverlayClose(context.Background(), id, reason)
}

// Overlay returns the open item's id and content, if any.
func (c *Controller) Overlay() (id, content string, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay.itemID, c.overlay.content, c.overlay.open
}
