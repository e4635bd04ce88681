//go:build linux || darwin

// Command cotask-pipe pumps bytes through a non-blocking pipe between two
// cooperative tasks and reports how often they had to wait.
package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/webriots/cotask"
)

func main() {
	var (
		path  = flag.String("config", "", "path to a YAML scheduler config")
		size  = flag.Int("size", 1<<20, "bytes to send through the pipe")
		chunk = flag.Int("chunk", 32<<10, "bytes per write")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().
		Timestamp().
		Logger()

	cfg, err := cotask.LoadConfig(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	sched, err := cotask.New(cotask.WithConfig(cfg), cotask.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("new scheduler")
	}

	r, w, err := cotask.Pipe()
	if err != nil {
		log.Fatal().Err(err).Msg("pipe")
	}
	defer r.Close()

	payload := make([]byte, *size)
	if _, err := rand.Read(payload); err != nil {
		log.Fatal().Err(err).Msg("payload")
	}
	received := make([]byte, 0, *size)
	done := false

	writer := sched.Prepare(func(_ context.Context, t *cotask.Task) {
		defer w.Close()
		out := cotask.NewIO(sched, w)
		for off := 0; off < len(payload); off += *chunk {
			end := min(off+*chunk, len(payload))
			if _, err := out.Write(payload[off:end]); err != nil {
				log.Error().Err(err).Str("task", t.Name()).Msg("write")
				return
			}
		}
	}, 0)
	writer.SetName("writer")

	reader := sched.Prepare(func(_ context.Context, t *cotask.Task) {
		defer func() { done = true }()
		buf := t.Stack()
		for {
			n, err := sched.YieldRead(r, buf)
			received = append(received, buf[:n]...)
			if err != nil {
				return
			}
		}
	}, 64<<10)
	reader.SetName("reader")

	heartbeat := sched.Prepare(func(_ context.Context, t *cotask.Task) {
		for turns := 1; !done; turns++ {
			if turns%1024 == 0 {
				log.Debug().Int("turns", turns).Msg("heartbeat")
			}
			t.Yield()
		}
	}, 0)
	heartbeat.SetName("heartbeat")
	heartbeat.SetSystem(true)

	start := time.Now()
	sched.Run(context.Background())
	sched.Close()

	st := sched.Stats()
	log.Info().
		Int("sent", len(payload)).
		Int("received", len(received)).
		Bool("match", bytes.Equal(payload, received)).
		Uint64("switches", st.Switches).
		Uint64("waitio", st.WaitIO).
		Dur("elapsed", time.Since(start)).
		Msg("done")

	if !bytes.Equal(payload, received) {
		os.Exit(1)
	}
}
