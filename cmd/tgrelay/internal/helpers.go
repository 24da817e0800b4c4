package internal

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/tinyland-inc/tgrelay/pkg/config"
	"github.com/tinyland-inc/tgrelay/pkg/i18n"
	"github.com/tinyland-inc/tgrelay/pkg/logger"
	"github.com/tinyland-inc/tgrelay/pkg/media"
	"github.com/tinyland-inc/tgrelay/pkg/providers"
	"github.com/tinyland-inc/tgrelay/pkg/relay"
	"github.com/tinyland-inc/tgrelay/pkg/telegram"
)

const Logo = "📨"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

// EnvFilePath is the dotenv file read before the environment is parsed.
func EnvFilePath() string {
	if p := os.Getenv("TGRELAY_ENV_FILE"); p != "" {
		return p
	}
	return ".env"
}

func LoadConfig() (*config.Config, error) {
	return config.LoadConfig(EnvFilePath())
}

// SetupLogging applies the configured log format and level. debug forces
// DEBUG regardless of RELAY_LOG_LEVEL.
func SetupLogging(cfg *config.Config, debug bool) {
	logger.Configure(os.Stderr, cfg.Log.Format)
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	if debug {
		logger.SetLevel(logger.DEBUG)
	}
}

func NewTelegramClient(cfg *config.Config, debug bool) (*telegram.Client, error) {
	var opts []telegram.Option
	if cfg.Telegram.APIServer != "" {
		opts = append(opts, telegram.WithAPIServer(cfg.Telegram.APIServer))
	}
	opts = append(opts, telegram.WithDebug(debug))
	return telegram.NewClient(cfg.Telegram.Token, opts...)
}

// RelayOptions maps configuration onto dispatcher options, including the
// reply strings for RELAY_LANG.
func RelayOptions(cfg *config.Config) (relay.Options, error) {
	loc, err := i18n.NewLocalizer(cfg.Relay.Lang)
	if err != nil {
		return relay.Options{}, err
	}
	return relay.Options{
		PhotoMode:    relay.PhotoMode(cfg.Relay.PhotoMode),
		AudioMode:    relay.AudioMode(cfg.Relay.AudioMode),
		ImageCommand: cfg.Image.Command,
		Messages:     loc.Messages(cfg.Relay.Lang),
	}, nil
}

// BuildBackends returns Deps with the AI side filled in: generator, image
// generator (nil when disabled) and downloader. Sender and Files are left to
// the caller.
func BuildBackends(ctx context.Context, cfg *config.Config) (relay.Deps, error) {
	hc, err := providers.NewHTTPClient(cfg.AI.ProxyURL, cfg.AI.Timeout)
	if err != nil {
		return relay.Deps{}, err
	}

	gen, err := providers.CreateGenerator(ctx, cfg, hc)
	if err != nil {
		return relay.Deps{}, fmt.Errorf("error creating generator: %w", err)
	}

	return relay.Deps{
		Generator:  gen,
		Images:     providers.CreateImageGenerator(cfg, hc),
		Downloader: media.NewDownloader(media.WithMaxBytes(cfg.Relay.MaxDownloadBytes)),
	}, nil
}

// BuildDispatcher validates cfg and wires the Telegram-facing relay. A
// *config.ConfigError is returned unwrapped.
func BuildDispatcher(ctx context.Context, cfg *config.Config, debug bool) (*relay.Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tg, err := NewTelegramClient(cfg, debug)
	if err != nil {
		return nil, err
	}

	deps, err := BuildBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps.Sender = tg
	deps.Files = tg

	opts, err := RelayOptions(cfg)
	if err != nil {
		return nil, err
	}

	return relay.NewDispatcher(deps, opts)
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

func GetVersion() string {
	return version
}
