package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/example/glintshot/internal/geom"
)

// AgentSink posts the crop to a companion agent over HTTP. The display
// bounds travel in a header so the agent can place the capture spatially.
type AgentSink struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func (s AgentSink) Export(img *image.RGBA, bounds geom.Bounds) error {
	if err := guard(img); err != nil {
		return err
	}
	if s.URL == "" {
		return fmt.Errorf("agent sink: no endpoint configured")
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("agent request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("X-Capture-Bounds", bounds.String())

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("agent post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("agent post: unexpected status %s", resp.Status)
	}
	return nil
}
