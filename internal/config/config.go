// Package config loads the client configuration from an optional YAML
// file layered over built-in defaults.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

type Config struct {
	Game      Game      `koanf:"game" yaml:"game"`
	Ledger    Ledger    `koanf:"ledger" yaml:"ledger"`
	Mirror    Mirror    `koanf:"mirror" yaml:"mirror"`
	Inventory Inventory `koanf:"inventory" yaml:"inventory"`
	Server    Server    `koanf:"server" yaml:"server"`
	Logging   Logging   `koanf:"logging" yaml:"logging"`
}

// Game identifies the session this client plays in.
type Game struct {
	GameID        string `koanf:"game_id" yaml:"game_id"`
	WorldID       string `koanf:"world_id" yaml:"world_id"`
	Participant   int    `koanf:"participant" yaml:"participant"`
	PlayerAddress string `koanf:"player_address" yaml:"player_address"`
	FrameRate     int    `koanf:"frame_rate" yaml:"frame_rate"`
}

// Ledger points at the contract manifest and the external signer.
type Ledger struct {
	ManifestPath   string `koanf:"manifest_path" yaml:"manifest_path"`
	SignerEndpoint string `koanf:"signer_endpoint" yaml:"signer_endpoint"`
	VRFProvider    string `koanf:"vrf_provider" yaml:"vrf_provider"`
}

// Mirror is the read-path indexer endpoint.
type Mirror struct {
	Endpoint     string        `koanf:"endpoint" yaml:"endpoint"`
	ProbeTimeout time.Duration `koanf:"probe_timeout" yaml:"probe_timeout"`
}

type Inventory struct {
	DatabasePath string `koanf:"database_path" yaml:"database_path"`
}

// Server hosts the renderer websocket and the metrics endpoint.
type Server struct {
	ListenAddr string `koanf:"listen_addr" yaml:"listen_addr"`
}

type Logging struct {
	Sinks        []string `koanf:"sinks" yaml:"sinks"`
	MinSeverity  string   `koanf:"min_severity" yaml:"min_severity"`
	JSONFilePath string   `koanf:"json_file_path" yaml:"json_file_path"`
}

func Default() Config {
	return Config{
		Game: Game{
			Participant: 0,
			FrameRate:   60,
		},
		Ledger: Ledger{
			ManifestPath: "manifest.json",
		},
		Mirror: Mirror{
			ProbeTimeout: 10 * time.Second,
		},
		Inventory: Inventory{
			DatabasePath: "inventory.db",
		},
		Server: Server{
			ListenAddr: ":8080",
		},
		Logging: Logging{
			Sinks:       []string{"console"},
			MinSeverity: "info",
		},
	}
}

// LoadFile reads the YAML file at path over the defaults without
// validating. An empty path returns the defaults untouched. Callers that
// layer further overrides validate afterwards.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, oops.With("path", path).Wrapf(err, "read config file")
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.With("path", path).Wrapf(err, "decode config file")
	}
	return cfg, nil
}

// Load is LoadFile followed by validation.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Game.GameID == "" {
		return oops.Errorf("game.game_id is required")
	}
	if c.Game.PlayerAddress == "" {
		return oops.Errorf("game.player_address is required")
	}
	if c.Game.FrameRate <= 0 {
		return oops.Errorf("game.frame_rate must be positive")
	}
	if c.Ledger.ManifestPath == "" {
		return oops.Errorf("ledger.manifest_path is required")
	}
	if c.Ledger.SignerEndpoint == "" {
		return oops.Errorf("ledger.signer_endpoint is required")
	}
	if c.Mirror.Endpoint == "" {
		return oops.Errorf("mirror.endpoint is required")
	}
	if c.Server.ListenAddr == "" {
		return oops.Errorf("server.listen_addr is required")
	}
	return nil
}
