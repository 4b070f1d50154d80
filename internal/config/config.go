/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package config

import "github.com/kelseyhightower/envconfig"

// Config holds every runtime knob of the relay, all settable from the environment.
type Config struct {
	Addr         string `envconfig:"CHATRELAY_ADDR" default:":5000"`
	DatabasePath string `envconfig:"CHATRELAY_DB" default:"chatrelay.db"`
	LogDir       string `envconfig:"CHATRELAY_LOG_DIR" default:"logs"`
	LogEnabled   bool   `envconfig:"CHATRELAY_LOG" default:"true"`
	// CHATRELAY_SESSION_KEY must be overridden outside local development.
	SessionKey     string   `envconfig:"CHATRELAY_SESSION_KEY" default:"dev-only-session-key"`
	AllowedOrigins []string `envconfig:"CHATRELAY_ALLOWED_ORIGINS"`
	HistoryLimit   int      `envconfig:"CHATRELAY_HISTORY_LIMIT" default:"50"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
