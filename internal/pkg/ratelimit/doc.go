// Package ratelimit enforces per-key request quotas over fixed tumbling
// windows.
//
// A tumbling window counts requests inside windowIndex = floor(now/window);
// a new window starts with a fresh count. A burst straddling a window
// boundary can therefore admit up to twice the configured maximum, which is
// an accepted approximation of this scheme, not a bug.
package ratelimit
