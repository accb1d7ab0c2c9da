// handlers/notification_service.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wittycoder91/DeliveryBackend/pkg/delivery"
)

// BroadcastClient implements delivery.Broadcaster by POSTing events
// to the hub's /broadcast endpoint. The hub may live in this process
// or on another host; the core never knows the difference, and a dead
// hub only ever costs the caller a warning.
type BroadcastClient struct {
	url    string
	client *http.Client
}

func NewBroadcastClient(url string) *BroadcastClient {
	return &BroadcastClient{
		url: url,
		client: &http.Client{
			Timeout: 3 * time.Second,
		},
	}
}

func (c *BroadcastClient) Broadcast(ctx context.Context, ev delivery.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post broadcast: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("broadcast endpoint returned %s", resp.Status)
	}
	return nil
}
