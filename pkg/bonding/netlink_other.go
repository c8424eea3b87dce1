//go:build !linux

package bonding

import (
	"context"
	"errors"
)

var errNetlinkUnsupported = errors.New("netlink bond inspection is only supported on linux")

// NetlinkInspector is unavailable on this platform.
type NetlinkInspector struct{}

// NewNetlinkInspector always fails on non-linux platforms.
func NewNetlinkInspector() (*NetlinkInspector, error) {
	return nil, errNetlinkUnsupported
}

// Close is a no-op.
func (n *NetlinkInspector) Close() {}

// ListBonds always fails on non-linux platforms.
func (n *NetlinkInspector) ListBonds(ctx context.Context) ([]string, error) {
	return nil, errNetlinkUnsupported
}

// Mode always fails on non-linux platforms.
func (n *NetlinkInspector) Mode(ctx context.Context, bond string) (Mode, error) {
	return ModeUnknown, errNetlinkUnsupported
}

// Members always fails on non-linux platforms.
func (n *NetlinkInspector) Members(ctx context.Context, bond string) ([]Member, error) {
	return nil, errNetlinkUnsupported
}
