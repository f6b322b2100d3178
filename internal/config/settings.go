// Package config loads runtime settings shared by the commands.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// ConfigName is the base name of the optional settings file (starstrike.yaml).
const ConfigName = "starstrike"

const envPrefix = "STARSTRIKE"

// Setting keys. Nested keys map to sections of starstrike.yaml.
const (
	keySSHHost        = "ssh.host"
	keySSHPort        = "ssh.port"
	keySSHHostKey     = "ssh.hostKey"
	keySSHDisplayHost = "ssh.displayHost"
	keyWebHost        = "web.host"
	keyWebPort        = "web.port"
	keyDatabaseURL    = "database.url"
	keyLogLevel       = "log.level"
	keyDifficulty     = "game.difficulty"
)

// envNames lists the environment variables read for each key, in priority order.
// The unprefixed names are the ones deployments already use.
var envNames = map[string][]string{
	keySSHHost:        {"SSH_HOST"},
	keySSHPort:        {"SSH_PORT"},
	keySSHHostKey:     {"SSH_HOST_KEY"},
	keySSHDisplayHost: {"SSH_DISPLAY_HOST"},
	keyWebHost:        {"WEB_HOST"},
	keyWebPort:        {"WEB_PORT"},
	keyDatabaseURL:    {"DATABASE_URL"},
	keyLogLevel:       {"LOG_LEVEL"},
	keyDifficulty:     {"DIFFICULTY"},
}

// Settings holds runtime configuration for the SSH, web and local front ends.
type Settings struct {
	SSHHost        string
	SSHPort        string
	SSHHostKey     string
	SSHDisplayHost string // Host name shown on the landing page
	WebHost        string
	WebPort        string
	DatabaseURL    string // Empty selects the in-memory high-score store
	LogLevel       string
	Difficulty     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keySSHHost, "::")
	v.SetDefault(keySSHPort, "2222")
	v.SetDefault(keySSHHostKey, "/app/keys/host_key")
	v.SetDefault(keySSHDisplayHost, "your-server.com")
	v.SetDefault(keyWebHost, "0.0.0.0")
	v.SetDefault(keyWebPort, "8080")
	v.SetDefault(keyDatabaseURL, "")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyDifficulty, "normal")
}

// Load reads settings from defaults, an optional starstrike.yaml found in
// one of paths (the working directory when none are given) and the
// environment. STARSTRIKE_-prefixed variables win over the plain names.
func Load(paths ...string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	for key, names := range envNames {
		prefixed := envPrefix + "_" + names[0]
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	s := &Settings{
		SSHHost:        v.GetString(keySSHHost),
		SSHPort:        v.GetString(keySSHPort),
		SSHHostKey:     v.GetString(keySSHHostKey),
		SSHDisplayHost: v.GetString(keySSHDisplayHost),
		WebHost:        v.GetString(keyWebHost),
		WebPort:        v.GetString(keyWebPort),
		DatabaseURL:    v.GetString(keyDatabaseURL),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel))),
		Difficulty:     strings.ToLower(strings.TrimSpace(v.GetString(keyDifficulty))),
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return s, nil
}

// SSHAddr returns host:port for the SSH listener.
func (s *Settings) SSHAddr() string {
	return net.JoinHostPort(s.SSHHost, s.SSHPort)
}

// WebAddr returns host:port for the HTTP listener.
func (s *Settings) WebAddr() string {
	return net.JoinHostPort(s.WebHost, s.WebPort)
}

// NewLogger creates a logger writing to w at the configured level.
// An unparsable level falls back to info.
func (s *Settings) NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}
