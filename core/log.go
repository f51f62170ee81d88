// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the level and output format to the standard logger.
func ConfigureLogging(cfg LogConfiguration) error {
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}
