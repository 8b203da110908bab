package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// ErrQuit is returned by KeyControl when the user asks to quit.
var ErrQuit = errors.New("quit by user")

const keyHelp = "keys: space=step a/m=automated/manual 1-4=shoe z,x,c,v,b,n=surface f/u=flat/stairs +/-=pace [/]=firmness </>=steadiness q=quit"

// keyCommand maps one key to a command. ok is false for unbound keys.
func keyCommand(b byte) (command []string, ok bool) {
	switch b {
	case ' ':
		return []string{"step"}, true
	case 'a':
		return []string{"set", "automated", "true"}, true
	case 'm':
		return []string{"set", "automated", "false"}, true
	case '1', '2', '3', '4':
		return []string{"set", "shoe", fmt.Sprint(int(b - '1'))}, true
	case 'f':
		return []string{"set", "terrain", "flat"}, true
	case 'u':
		return []string{"set", "terrain", "stairs"}, true
	case '+', '=':
		return []string{"adjust", "pace", "10"}, true
	case '-':
		return []string{"adjust", "pace", "-10"}, true
	case ']':
		return []string{"adjust", "firmness", "0.1"}, true
	case '[':
		return []string{"adjust", "firmness", "-0.1"}, true
	case '>', '.':
		return []string{"adjust", "steadiness", "0.1"}, true
	case '<', ',':
		return []string{"adjust", "steadiness", "-0.1"}, true
	}
	surfaceKeys := "zxcvbn"
	for i := range surfaceKeys {
		if surfaceKeys[i] == b {
			return []string{"set", "surface", fmt.Sprint(i)}, true
		}
	}
	return nil, false
}

// KeyControl puts the terminal in raw mode and turns key presses into
// commands until ctx is done or q (or Ctrl-C) is pressed.
func KeyControl(ctx context.Context, commandCh chan<- []string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		log.Println("[WARN] stdin is not a terminal, key control disabled")
		return nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, oldState); err != nil {
			log.Printf("failed to restore terminal: %v\n", err)
		}
	}()
	if err := syscall.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("failed to set nonblocking stdin: %w", err)
	}
	defer syscall.SetNonblock(fd, false)
	log.Println(keyHelp + "\r")

	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			log.Println("KeyControl() interrupted\r")
			return nil
		default:
		}
		n, err := syscall.Read(fd, buf)
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err != nil {
			return err
		}
		if buf[0] == 'q' || buf[0] == 3 {
			return ErrQuit
		}
		command, ok := keyCommand(buf[0])
		if !ok {
			continue
		}
		select {
		case commandCh <- command:
		case <-ctx.Done():
			return nil
		}
	}
}
