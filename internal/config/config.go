// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/trim21/errgo"

	"seedling/internal/create"
)

// DefaultTrackers prefill the tracker field of the creation form.
var DefaultTrackers = []string{
	"udp://tracker.openbittorrent.com:80",
	"udp://tracker.internetwarriors.net:1337",
	"udp://tracker.leechers-paradise.org:6969",
	"udp://tracker.coppersurfer.tk:6969",
	"udp://exodus.desync.com:6969",
	"wss://tracker.webtorrent.io",
	"wss://tracker.btorrent.xyz",
	"wss://tracker.openwebtorrent.com",
	"wss://tracker.fastcast.nz",
}

type Create struct {
	Trackers     []string `toml:"trackers"`
	MaxFileLines int      `toml:"max-file-lines"`
	// number of creation requests handed to the creator at the same time
	Workers int `toml:"workers"`
}

type Cleanup struct {
	// directory name under the temp root, "/tmp/webtorrent" by default
	TempDirName string `toml:"temp-dir-name"`
	// desktop entries registered for .torrent files and magnet links
	DesktopEntries []string `toml:"desktop-entries"`
}

type Config struct {
	Create  Create  `toml:"create"`
	Cleanup Cleanup `toml:"cleanup"`
}

func Default() Config {
	return Config{
		Create: Create{
			Trackers:     append([]string(nil), DefaultTrackers...),
			MaxFileLines: create.DefaultMaxFileLines,
			Workers:      4,
		},
		Cleanup: Cleanup{
			TempDirName:    "webtorrent",
			DesktopEntries: []string{"webtorrent-desktop.desktop"},
		},
	}
}

func LoadFromFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}

		return Config{}, errgo.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errgo.Wrap(err, "failed to parse config file")
	}

	cfg.fillDefaults()

	if !isPlainName(cfg.Cleanup.TempDirName) {
		return cfg, errgo.Wrap(errInvalidTempDirName, strconv.Quote(cfg.Cleanup.TempDirName))
	}

	return cfg, nil
}

// isPlainName reports whether name is a single path element that stays inside
// the directory it is joined to. --clean removes <temp root>/<name>.
func isPlainName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsAny(name, "/\\\x00") && filepath.VolumeName(name) == ""
}

func (c *Config) fillDefaults() {
	d := Default()

	if c.Create.Trackers == nil {
		c.Create.Trackers = d.Create.Trackers
	}

	if c.Create.MaxFileLines <= 0 {
		c.Create.MaxFileLines = d.Create.MaxFileLines
	}

	if c.Create.Workers <= 0 {
		c.Create.Workers = d.Create.Workers
	}

	if c.Cleanup.TempDirName == "" {
		c.Cleanup.TempDirName = d.Cleanup.TempDirName
	}

	if c.Cleanup.DesktopEntries == nil {
		c.Cleanup.DesktopEntries = d.Cleanup.DesktopEntries
	}
}

// PageOptions is the part of the config the creation view needs.
func (c Config) PageOptions() create.PageOptions {
	return create.PageOptions{
		DefaultTrackers: c.Create.Trackers,
		MaxFileLines:    c.Create.MaxFileLines,
	}
}
