// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration     `toml:"time"`
	Renderer RendererConfiguration `toml:"renderer"`
	Assets   AssetConfiguration    `toml:"assets"`
	Log      LogConfiguration      `toml:"log"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int `toml:"fps"`

	// EventPollDelay is the delay between window event polls in milliseconds
	EventPollDelay int `toml:"event_poll_delay"`
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	ScreenWidth  uint32 `toml:"width"`
	ScreenHeight uint32 `toml:"height"`

	// ClearColor is the canvas colour in 0-255 components.
	ClearColor [4]uint8 `toml:"clear_color"`

	// Scene names the scene description to render.
	Scene string `toml:"scene"`
}

// AssetConfiguration tells where shaders, images and scenes are fetched from.
type AssetConfiguration struct {
	// Root is a directory or an http(s) URL that resource identifiers are relative to.
	// When empty, the assets bundled with the binary are used.
	Root string `toml:"root"`

	// Archive is an optional kar archive, addressed with the "kar:" scheme.
	Archive string `toml:"archive"`

	// Watch enables shader hot reload when Root is a directory.
	Watch bool `toml:"watch"`
}

// LogConfiguration sets up logging output
type LogConfiguration struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Environment variables that override configuration values.
const (
	EnvWidth    = "GLSTAGE_WIDTH"
	EnvHeight   = "GLSTAGE_HEIGHT"
	EnvFPS      = "GLSTAGE_FPS"
	EnvAssets   = "GLSTAGE_ASSETS"
	EnvArchive  = "GLSTAGE_ARCHIVE"
	EnvScene    = "GLSTAGE_SCENE"
	EnvLogLevel = "GLSTAGE_LOG_LEVEL"
)

// DefaultConfiguration returns the configuration the demos were written against:
// an 800x600 black canvas redrawn at 60 frames per second.
func DefaultConfiguration() Configuration {
	return Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  50,
		},
		Renderer: RendererConfiguration{
			ScreenWidth:  800,
			ScreenHeight: 600,
			ClearColor:   [4]uint8{0, 0, 0, 255},
			Scene:        "triangle",
		},
		Log: LogConfiguration{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadEnvFile loads variables from a dotenv file into the environment view
// used by LoadConfiguration, without overriding variables the process already has.
func LoadEnvFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("godotenv.Read(%s): %s", path, err.Error())
	}
	for key, value := range vars {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		envy.Set(key, value)
	}
	return nil
}

// LoadConfiguration reads a TOML configuration file on top of the defaults
// and then applies environment overrides. An empty path skips the file.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("configuration %s: %s", path, err.Error())
		}
	}
	if err := applyEnvironment(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvironment(cfg *Configuration) error {
	uintVars := []struct {
		name string
		dst  *uint32
	}{
		{EnvWidth, &cfg.Renderer.ScreenWidth},
		{EnvHeight, &cfg.Renderer.ScreenHeight},
	}
	for _, v := range uintVars {
		raw := envy.Get(v.name, "")
		if raw == "" {
			continue
		}
		num, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %s", v.name, err.Error())
		}
		*v.dst = uint32(num)
	}

	if raw := envy.Get(EnvFPS, ""); raw != "" {
		fps, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %s", EnvFPS, err.Error())
		}
		cfg.Time.FramesPerSecond = fps
	}

	cfg.Assets.Root = envy.Get(EnvAssets, cfg.Assets.Root)
	cfg.Assets.Archive = envy.Get(EnvArchive, cfg.Assets.Archive)
	cfg.Renderer.Scene = envy.Get(EnvScene, cfg.Renderer.Scene)
	cfg.Log.Level = envy.Get(EnvLogLevel, cfg.Log.Level)
	return nil
}
