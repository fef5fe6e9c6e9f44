package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/Danondso/cuetrack/internal/config"
	"github.com/Danondso/cuetrack/internal/preview"
	"github.com/Danondso/cuetrack/internal/protocol"
	"github.com/Danondso/cuetrack/internal/report"
	"github.com/Danondso/cuetrack/internal/speech"
	"github.com/Danondso/cuetrack/internal/wavfile"
)

func newLogger(debug bool) *log.Logger {
	if debug {
		return log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
	return log.New(io.Discard, "", 0)
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

func handleRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath(), "path to config file")
	out := fs.String("o", "", "output WAV path (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging to stderr")
	_ = fs.Parse(args)

	dbg := newLogger(*debug)
	cfg := loadConfig(*cfgPath)
	if *out != "" {
		cfg.Output.Path = *out
	}
	dbg.Printf("config: %s", *cfgPath)

	if cfg.Speech.Provider == "openai" {
		if u, err := url.Parse(cfg.Speech.BaseURL); err == nil {
			if u.Scheme == "http" && u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" && u.Hostname() != "::1" {
				log.Printf("WARNING: speech base_url uses plaintext HTTP to non-local host %q", u.Hostname())
			}
		}
	}

	provider, err := speech.New(&cfg.Speech, dbg)
	if err != nil {
		log.Fatalf("create speech provider: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := protocol.Render(ctx, *cfg, provider, dbg)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if err := wavfile.WriteFile(cfg.Output.Path, res.Timeline.Samples(), res.Timeline.SampleRate()); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Println(report.Summary(res, cfg.Output.Path))
}

func handleInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath(), "path to config file")
	force := fs.Bool("force", false, "overwrite an existing config file")
	_ = fs.Parse(args)

	if _, err := os.Stat(*cfgPath); err == nil && !*force {
		log.Fatalf("config %s already exists (use -force to overwrite)", *cfgPath)
	}
	if err := config.Save(*cfgPath, config.Default()); err != nil {
		log.Fatalf("save config: %v", err)
	}
	fmt.Printf("Wrote default config to %s\n", *cfgPath)
}

func handleSchedule(args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	cfgPath := fs.String("config", config.DefaultPath(), "path to config file")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	fmt.Print(report.Schedule(protocol.Schedule(*cfg)))
}

func handlePlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	debug := fs.Bool("debug", false, "enable debug logging to stderr")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cuetrack play [-debug] <file.wav>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	h, err := wavfile.ReadHeader(data)
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	clip, err := preview.Open(data)
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	fmt.Println(report.Playback(path, h, clip.Duration(), len(data)))

	p := preview.New(newLogger(*debug))
	if err := p.Play(ctx, clip); err != nil && ctx.Err() == nil {
		log.Fatalf("play: %v", err)
	}
}

func main() {
	args := os.Args[1:]
	cmd := "render"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "render":
		handleRender(args)
	case "init":
		handleInit(args)
	case "schedule":
		handleSchedule(args)
	case "play":
		handlePlay(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want render, init, schedule or play)\n", cmd)
		os.Exit(2)
	}
}
