package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CommandHandler produces the reply for one operator command. An empty
// reply means nothing is sent back.
type CommandHandler func(command string) string

const (
	// pollWindow is how long the Bot API holds an idle getUpdates
	// request open server-side.
	pollWindow = 30 * time.Second
	// pollRetryDelay spaces out retries after a failed poll cycle.
	pollRetryDelay = 5 * time.Second
)

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message"`
}

// StartPolling long-polls the Bot API for operator commands and feeds
// them to handler. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	// The poll client needs headroom over the server-side hold time, or
	// every idle cycle ends in a client timeout. It shares the
	// notifier's transport so proxy settings apply to polling too.
	client := &http.Client{
		Timeout:   pollWindow + 5*time.Second,
		Transport: t.Client.Transport,
	}

	offset := 0
	for ctx.Err() == nil {
		updates, next, err := t.fetchUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			t.log.WithError(err).Warn("poll cycle failed")
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}
		offset = next
		for i := range updates {
			t.dispatch(&updates[i], handler)
		}
	}
	t.log.Info("telegram polling stopped")
}

// fetchUpdates runs one getUpdates cycle. It returns the received
// updates plus the offset that acknowledges them on the next cycle.
func (t *TelegramNotifier) fetchUpdates(ctx context.Context, client *http.Client, offset int) ([]telegramUpdate, int, error) {
	apiURL := fmt.Sprintf("%s?offset=%d&timeout=%d", t.endpoint("getUpdates"), offset, int(pollWindow.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, offset, fmt.Errorf("build poll request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, offset, err
	}
	defer resp.Body.Close()

	var payload struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, offset, fmt.Errorf("decode poll response: %w", err)
	}
	if !payload.OK {
		return nil, offset, fmt.Errorf("getUpdates rejected, status %d", resp.StatusCode)
	}

	next := offset
	for _, u := range payload.Result {
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	return payload.Result, next, nil
}

func (t *TelegramNotifier) dispatch(u *telegramUpdate, handler CommandHandler) {
	if u.Message == nil {
		return
	}
	text := strings.TrimSpace(u.Message.Text)
	if text == "" {
		return
	}
	t.log.WithField("command", text).Info("received command")
	if reply := handler(text); reply != "" {
		if err := t.Send(reply); err != nil {
			t.log.WithError(err).Error("send reply")
		}
	}
}
