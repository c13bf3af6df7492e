package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"TrendSentinel/internal/model"
)

// telegramUpdate represents a Telegram update returned by getUpdates.
type telegramUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// PollUpdates fetches updates strictly after cursor. A zero cursor means nothing has
// been seen yet. Updates without a message come back with an empty Text so the caller
// can still advance past them.
func (t *TelegramNotifier) PollUpdates(ctx context.Context, cursor int64) ([]model.InboundMessage, error) {
	q := url.Values{}
	if cursor > 0 {
		q.Set("offset", strconv.FormatInt(cursor+1, 10))
	}
	apiURL := t.endpoint("getUpdates")
	if len(q) > 0 {
		apiURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrPoll, err)
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPoll, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrPoll, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrPoll, resp.StatusCode, string(body))
	}

	var result struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrPoll, err)
	}
	if !result.OK {
		return nil, fmt.Errorf("%w: api returned ok=false", ErrPoll)
	}

	msgs := make([]model.InboundMessage, 0, len(result.Result))
	for _, u := range result.Result {
		m := model.InboundMessage{ID: u.UpdateID}
		if u.Message != nil {
			m.ChatID = u.Message.Chat.ID
			m.Text = u.Message.Text
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
