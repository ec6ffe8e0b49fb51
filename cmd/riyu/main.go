package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"riyu/internal/action"
	"riyu/internal/audio"
	"riyu/internal/bus"
	"riyu/internal/config"
	"riyu/internal/dispatch"
	"riyu/internal/intent"
	"riyu/internal/ipc"
	"riyu/internal/journal"
	"riyu/internal/metrics"
	"riyu/internal/notify"
	"riyu/internal/server"
	"riyu/internal/system"
	"riyu/internal/tts"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", config.DefaultPath, "Config file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	listen := cli.String("listen", "", "HTTP listen address (overrides config)")
	socket := cli.String("socket", "", "Control socket path (overrides config)")
	busURL := cli.String("bus", "", "Websocket bus URL (overrides config)")
	mute := cli.BoolP("mute", "m", false, "Print responses instead of speaking them")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      logLevelMap[*logLevel],
		TimeFormat: time.Kitchen,
	})))

	log.Info("Booting up")

	if err := godotenv.Load(*envFile); err != nil {
		log.Debug("No env file loaded", "path", *envFile, "err", err)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		log.Error("Bad environment", "err", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *socket != "" {
		cfg.Socket = *socket
	}
	if *busURL != "" {
		cfg.BusURL = *busURL
	}
	if *mute {
		cfg.Speech.Engine = "console"
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded config", "path", *cfgFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	met := metrics.New()
	sinks := []dispatch.Sink{met}

	var logs server.LogReader
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Error("Failed to open journal", "path", cfg.Journal.Path, "err", err)
			os.Exit(1)
		}
		defer store.Close()
		sinks = append(sinks, store)
		logs = store
		log.Debug("Loaded journal", "path", cfg.Journal.Path)
	}

	d, err := buildDispatcher(cfg, met, sinks)
	if err != nil {
		log.Error("Failed to build dispatcher", "err", err)
		os.Exit(1)
	}

	ctl, err := ipc.StartServer(cfg.Socket, func(ctx context.Context, msg ipc.ControlMessage) ipc.Reply {
		switch msg.Cmd {
		case ipc.CmdExecute:
			out, err := d.Dispatch(ctx, msg.Text)
			if err != nil {
				return ipc.Reply{Status: "rejected", Error: err.Error()}
			}
			return ipc.Reply{Status: "executed", Phrase: out.Phrase}
		case ipc.CmdPing:
			return ipc.Reply{Status: "pong"}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Reply{Status: "error", Error: "unknown command"}
		}
	})
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}
	defer ctl.Close()

	if cfg.BusURL != "" {
		shard := &bus.Shard{
			Name: cfg.Shard,
			URL:  cfg.BusURL,
			Handler: func(ctx context.Context, text string) (string, error) {
				out, err := d.Dispatch(ctx, text)
				return out.Phrase, err
			},
		}
		go shard.Run(ctx)
	}

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: server.NewHandler(&server.Server{
			Dispatcher: d,
			Logs:       logs,
			Metrics:    met.Handler(),
			Engine:     cfg.Speech.Engine,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Boot up - successful", "listen", cfg.Listen, "socket", cfg.Socket)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server failed", "err", err)
		os.Exit(1)
	}

	log.Info("Shutting down")
}

func buildDispatcher(cfg *config.Config, met *metrics.Metrics, sinks []dispatch.Sink) (*dispatch.Dispatcher, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	matcher, err := intent.NewMatcher(rules)
	if err != nil {
		return nil, err
	}

	amixer := system.NewAmixer()
	amixer.Device = cfg.Actions.MixerDevice
	amixer.Control = cfg.Actions.MixerControl

	term := system.NewTerminal(cfg.Actions.Terminal)
	term.Args = cfg.Actions.TerminalArgs

	executor := action.NewExecutor(action.Config{
		Power:      system.NewACPI(),
		Load:       system.NewUptime(),
		Files:      &system.WorkDir{Dir: cfg.Actions.WorkDir},
		Volume:     amixer,
		Launcher:   term,
		VolumeStep: cfg.Actions.VolumeStep,
		Observe:    met.ObserveAction,
	})

	templates, err := cfg.DispatchTemplates()
	if err != nil {
		return nil, err
	}

	return dispatch.New(dispatch.Config{
		Classifier:     matcher,
		Executor:       executor,
		Speaker:        buildSpeaker(cfg.Speech),
		Templates:      templates,
		Sinks:          sinks,
		RejectWhenBusy: cfg.RejectWhenBusy,
	})
}

func buildSpeaker(sc config.Speech) dispatch.Speaker {
	if sc.Engine == "console" {
		return tts.Console{W: os.Stdout}
	}

	opts := tts.Options{
		DuckFactor: sc.DuckFactor,
		Fade:       sc.DuckFade,
	}
	if sc.Chime != "" {
		opts.Chime = notify.NewChime(sc.Chime)
	}
	if sc.Duck {
		opts.Ducker = audio.NewDucker(audio.NewPactl(), sc.SelfNames, sc.DuckMin)
	}

	return tts.NewOutput(tts.NewEspeak(sc.Voice, sc.Rate), opts)
}
