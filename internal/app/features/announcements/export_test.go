package announcements

import "time"

// SetNow pins the clock used for effective status.
func (h *Handler) SetNow(f func() time.Time) { h.now = f }
