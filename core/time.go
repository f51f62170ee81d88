// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	var interval time.Duration
	if cfg.FramesPerSecond <= 0 {
		interval = time.Millisecond
	} else {
		interval = time.Second / time.Duration(cfg.FramesPerSecond)
	}

	pollDelay := time.Duration(cfg.EventPollDelay) * time.Millisecond
	if pollDelay <= 0 {
		pollDelay = interval
	}

	return &Time{
		fps:            cfg.FramesPerSecond,
		fpsTicker:      time.NewTicker(interval),
		eventPollDelay: pollDelay,
		eventTicker:    time.NewTicker(pollDelay),
	}
}

// Time contains all the time services and tickers
type Time struct {
	fps       int
	fpsTicker *time.Ticker

	eventPollDelay time.Duration
	eventTicker    *time.Ticker
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// EventTicker gets the initialized event ticker for the event loop
func (t *Time) EventTicker() *time.Ticker {
	return t.eventTicker
}

// EventPollDelay is the interval between event polls.
func (t *Time) EventPollDelay() time.Duration {
	return t.eventPollDelay
}

// Release stops the tickers.
func (t *Time) Release() {
	t.fpsTicker.Stop()
	t.eventTicker.Stop()
}
