package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jinjor/footsteps/src/audio"
	"golang.org/x/sync/errgroup"
)

var (
	sampleRate = flag.Int("rate", 48000, "sample rate")
	sockFile   = flag.String("socket", "/tmp/footsteps.sock", "unix socket for commands and reports (empty to disable)")
	midiPort   = flag.Int("midi", -1, "MIDI input port to listen to (-1 to disable)")
	keys       = flag.Bool("keys", false, "control with the keyboard")
	preset     = flag.String("preset", "", "params JSON applied at startup")
	presetDir  = flag.String("presets", "", "directory of named presets")
	window     = flag.String("window", "hann", "FFT window for reports: hann, hamming or blackman")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := audio.NewAudio(*sampleRate, audio.WindowFromString(*window))
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer a.Close()
	if *preset != "" {
		if err := a.ApplyJSON([]byte(`{"params":` + *preset + `}`)); err != nil {
			log.Fatalf("error: %v\n", err)
		}
	}
	if *presetDir != "" {
		a.SetPresetDir(*presetDir)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		select {
		case sig := <-signalCh:
			log.Printf("Caught signal %s: shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Start(ctx)
	})
	if *sockFile != "" {
		g.Go(func() error {
			return withIPCConnection(ctx, *sockFile, func(conn net.Conn) error {
				ctx, disconnect := context.WithCancel(ctx)
				defer disconnect()
				g, ctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					defer disconnect()
					return receiveCommands(ctx, conn, a)
				})
				g.Go(func() error {
					return sendReports(ctx, conn, a)
				})
				return g.Wait()
			})
		})
	}
	if *midiPort >= 0 {
		g.Go(func() error {
			for data := range audio.ListenToMidiIn(ctx, *midiPort) {
				a.AddMidiEvent(data)
			}
			log.Println("MIDI listener ended.")
			return nil
		})
	}
	if *keys {
		g.Go(func() error {
			return audio.KeyControl(ctx, a.CommandCh)
		})
	}
	err = g.Wait()
	if err != nil && !errors.Is(err, audio.ErrQuit) {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func withIPCConnection(ctx context.Context, sockFileName string, f func(net.Conn) error) error {
	os.Remove(sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFileName)
	if err != nil {
		return err
	}
	var closeOnce sync.Once
	closeListener := func() {
		closeOnce.Do(func() {
			log.Println("Closing IPC...")
			if err := listener.Close(); err != nil {
				log.Printf("error while closing listener: %v", err)
			}
			os.Remove(sockFileName)
		})
	}
	defer closeListener()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			closeListener()
		case <-stop:
		}
	}()
	log.Printf("start listening on %s...\n", sockFileName)
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			// unblocks the pending read
			conn.SetReadDeadline(time.Now())
		case <-stop:
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, a *audio.Audio) error {
	reader := bufio.NewReader(conn)
	var line []byte
	for {
		next, isPrefix, err := reader.ReadLine()
		if ctx.Err() != nil {
			log.Println("Connection interrupted")
			break
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		line = line[:0]
		if err != nil {
			log.Printf("[WARN] %v\n", err)
			continue
		}
		log.Printf("received: %v\n", command)
		if reply, ok := query(a, command); ok {
			if _, err := conn.Write([]byte(reply + "\n")); err != nil {
				return err
			}
			continue
		}
		select {
		case a.CommandCh <- command:
		case <-ctx.Done():
		}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

// query answers commands that read state instead of changing it.
func query(a *audio.Audio, command []string) (string, bool) {
	switch command[0] {
	case "state":
		return "state " + url.QueryEscape(string(a.ToJSON())), true
	case "presets":
		names, err := a.Presets()
		if err != nil {
			log.Printf("[WARN] %v\n", err)
		}
		s := "presets"
		for _, name := range names {
			s += " " + url.QueryEscape(name)
		}
		return s, true
	}
	return "", false
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Split(strings.TrimSpace(line), " ")
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, fmt.Errorf("invalid command %q: %w", line, err)
		}
		lineStr[i] = escaped
	}
	if lineStr[0] == "" {
		return nil, fmt.Errorf("empty command")
	}
	return lineStr, nil
}

func sendReports(ctx context.Context, conn net.Conn, a *audio.Audio) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			s := "level " + strconv.FormatFloat(a.GetLevel(), 'f', 6, 64) + "\nfft"
			for _, value := range a.GetFFT() {
				s += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			if _, err := conn.Write([]byte(s + "\n")); err != nil {
				if ctx.Err() != nil {
					break loop
				}
				return err
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}
