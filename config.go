package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind                 string
	botDrawDelay         time.Duration
	heartbeatInterval    time.Duration
	idleRoomTimeout      time.Duration
	mismatchResolveDelay time.Duration
	port                 int
	prefix               string
	profile              bool
	tlsCert              string
	tlsKey               string
	verbose              bool
	version              bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BOARDHALL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "boardhall...",
		Short:         "A multi-room real-time board game server: Bingo, Crocodile-Tooth, Flag Memory, and Gomoku.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BOARDHALL_BIND)")
	fs.DurationVar(&cfg.botDrawDelay, "bot-draw-delay", 1200*time.Millisecond, "delay before the Bingo bot draws a number (env: BOARDHALL_BOT_DRAW_DELAY)")
	fs.DurationVar(&cfg.heartbeatInterval, "heartbeat-interval", 25*time.Second, "interval between SSE heartbeat comments (env: BOARDHALL_HEARTBEAT_INTERVAL)")
	fs.DurationVar(&cfg.idleRoomTimeout, "idle-room-timeout", 60*time.Minute, "time before idle rooms are reaped (env: BOARDHALL_IDLE_ROOM_TIMEOUT)")
	fs.DurationVar(&cfg.mismatchResolveDelay, "mismatch-resolve-delay", 1100*time.Millisecond, "delay before a Memory mismatch clears (env: BOARDHALL_MISMATCH_RESOLVE_DELAY)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: BOARDHALL_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: BOARDHALL_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: BOARDHALL_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: BOARDHALL_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: BOARDHALL_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: BOARDHALL_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: BOARDHALL_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("boardhall v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
