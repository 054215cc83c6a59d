package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// ServerVersion returns the version reported by the server.
func (c *Client) ServerVersion(ctx context.Context) (*version.Version, error) {
	var raw string
	if err := c.db.QueryRowContext(ctx, "show server_version").Scan(&raw); err != nil {
		return nil, fmt.Errorf("server version: %w", err)
	}
	return parseServerVersion(raw)
}

// parseServerVersion reads strings such as "16.2 (Debian 16.2-1.pgdg120+2)".
func parseServerVersion(raw string) (*version.Version, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, fmt.Errorf("server version: empty")
	}
	return version.NewVersion(fields[0])
}

// CheckServerVersion fails with ErrServerVersion when the server does not
// satisfy constraint.
func (c *Client) CheckServerVersion(ctx context.Context, constraint string) error {
	constraints, err := version.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("server version constraint %q: %w", constraint, err)
	}
	v, err := c.ServerVersion(ctx)
	if err != nil {
		return err
	}
	if !constraints.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrServerVersion, v, constraint)
	}
	return nil
}
