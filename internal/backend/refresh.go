package backend

import (
	"context"
	"time"
)

// StartAutoRefresh launches the background job that refreshes the session
// once it expires within the configured margin. It checks once right away
// and then on every tick. A running job is stopped first; the job ends when
// ctx is cancelled or StopAutoRefresh is called. It is a no-op when
// automatic refresh is switched off.
func (c *Client) StartAutoRefresh(ctx context.Context) {
	if !c.cfg.AutoRefreshToken {
		return
	}

	c.StopAutoRefresh()

	c.jobMu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	c.jobCancel = cancel
	c.jobWG.Add(1)
	c.jobMu.Unlock()

	go func() {
		defer c.jobWG.Done()
		t := time.NewTicker(c.refreshInterval)
		defer t.Stop()

		c.refreshIfExpiring(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				c.refreshIfExpiring(jobCtx)
			}
		}
	}()
}

// StopAutoRefresh cancels the refresh job and waits for it to exit. Safe to
// call when the job is not running.
func (c *Client) StopAutoRefresh() {
	c.jobMu.Lock()
	cancel := c.jobCancel
	c.jobCancel = nil
	c.jobMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.jobWG.Wait()
}

func (c *Client) refreshIfExpiring(ctx context.Context) {
	s, err := c.currentSession(ctx)
	if err != nil || s == nil {
		return
	}
	if !s.ExpiresWithin(c.now(), c.refreshMargin) {
		return
	}

	if _, err = c.refresh(ctx, s.RefreshToken); err != nil {
		c.logger.Err(err).Str("func", "Client.refreshIfExpiring").Msg("background token refresh failed")
	}
}
