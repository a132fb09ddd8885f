package sui

import "context"

// Ping implements ports.HealthChecker.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ChainIdentifier(ctx)
	return err
}

// Name returns the dependency name.
func (c *Client) Name() string {
	return "sui"
}
