package main

import (
	"context"
	"runtime"

	"robo-tools/cmd/robolib/robots"

	"github.com/shirou/gopsutil/v4/host"
)

// currentPlatform maps the host operating system onto an asset platform.
// gopsutil reports the running kernel; runtime.GOOS is the fallback when the
// host cannot be queried.
func currentPlatform(ctx context.Context) (robots.Platform, error) {
	goos := runtime.GOOS
	if info, err := host.InfoWithContext(ctx); err == nil && info.OS != "" {
		goos = info.OS
	}
	return robots.ParsePlatform(goos)
}

// pickPlatform resolves the platform for url-like queries.
// Priority: --platform flag > config.yml platform > host platform.
func pickPlatform(ctx context.Context, flag, configured string) (robots.Platform, error) {
	switch {
	case flag != "":
		return robots.ParsePlatform(flag)
	case configured != "":
		return robots.ParsePlatform(configured)
	}
	return currentPlatform(ctx)
}
