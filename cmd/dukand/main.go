package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dukan/internal/app"
	"dukan/internal/config"
	logx "dukan/pkg/logx"

	sd "github.com/coreos/go-systemd/v22/daemon"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config file (json or yaml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Default()
	if cfgPath != "" {
		c, err := config.Load(cfgPath)
		if err != nil {
			fmt.Println("fatal:", err)
			os.Exit(1)
		}
		cfg = c
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
	log := a.Log()

	if err := a.Start(ctx); err != nil {
		fmt.Println("fatal start:", err)
		os.Exit(1)
	}

	// Tell systemd we're up (no-op outside a systemd unit).
	if ok, err := sd.SdNotify(false, sd.SdNotifyReady); err != nil {
		log.Debug("sd_notify failed", logx.Err(err))
	} else if ok {
		log.Debug("sd_notify ready sent")
	}

	// Config hot reload: log sinks, telegram alerter, and sweep schedule
	// re-apply live; storage changes warn and wait for a restart.
	if cfgPath != "" {
		go func() {
			if err := config.Watch(ctx, cfgPath, cfg, log, a.Apply); err != nil {
				log.Warn("config watcher stopped", logx.Err(err))
			}
		}()
	}

	// Mirror lifecycle events into the log until shutdown.
	events, unsub := a.Bus().Subscribe(64)
	defer unsub()
	for {
		select {
		case <-ctx.Done():
			_, _ = sd.SdNotify(false, sd.SdNotifyStopping)
			_ = a.Stop(context.Background())
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			// a.Log() rather than the startup logger: reloads may swap sinks.
			a.Log().Info("event", logx.String("type", string(e.Type)), logx.Any("data", e.Data))
		}
	}
}
