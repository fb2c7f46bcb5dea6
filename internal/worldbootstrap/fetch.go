// Package worldbootstrap fetches a world's starter snapshot from its
// config `url` option (spec.md §6) before the world gateway serves its
// first chunk. Adapted from the teacher's cmd/dmd/main.go, which uses
// go-getter to fetch versioned schema bundles from a git/http/S3/GCS
// source; here the same `get.Get(dst, src)` call fetches a starter-world
// archive instead.
package worldbootstrap

import (
	"fmt"
	"log/slog"
	"os"

	getter "github.com/hashicorp/go-getter"
)

// Fetch downloads and unpacks the archive at url into dir, skipping the
// fetch entirely if dir already has content (a world that has already
// been played need not re-fetch its starter snapshot on every restart).
// Grounded on the teacher's cmd/dmd "remove destination, then Get" flow,
// but non-destructive: an existing world directory is never wiped by a
// config change, only a fresh one is seeded.
func Fetch(url, dir string, log *slog.Logger) error {
	if url == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err == nil && len(entries) > 0 {
		log.Info("world directory already populated, skipping starter-world fetch", "dir", dir)
		return nil
	}

	log.Info("fetching starter world", "url", url, "dir", dir)
	if err := getter.Get(dir, url); err != nil {
		return fmt.Errorf("worldbootstrap: fetch %s: %w", url, err)
	}
	log.Info("starter world fetched", "dir", dir)
	return nil
}
