package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("230")).
	Background(lipgloss.Color("62")).
	Padding(0, 1)

// Terminal prints a banner, ringing the bell when sound is enabled. It is
// unavailable unless out is a terminal.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	tty bool
}

// NewTerminal writes to f when f is a terminal.
func NewTerminal(f *os.File) *Terminal {
	return &Terminal{out: f, tty: f != nil && term.IsTerminal(int(f.Fd()))}
}

func (t *Terminal) Deliver(_ context.Context, n Notification) error {
	if !t.tty {
		return ErrDeliveryUnavailable
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	bell := ""
	if n.SoundEnabled {
		bell = "\a"
	}
	if _, err := fmt.Fprintf(t.out, "%s%s %s\n", bell, bannerStyle.Render(n.Title), n.Message); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}
	return nil
}

// Desktop hands notifications to notify-send. It is unavailable when the
// command cannot be found.
type Desktop struct {
	bin string
}

func NewDesktop() *Desktop {
	bin, err := exec.LookPath("notify-send")
	if err != nil {
		return &Desktop{}
	}
	return &Desktop{bin: bin}
}

func (d *Desktop) Deliver(ctx context.Context, n Notification) error {
	if d.bin == "" {
		return ErrDeliveryUnavailable
	}
	args := []string{"--app-name=shiftbell"}
	if !n.SoundEnabled {
		args = append(args, "--hint=boolean:suppress-sound:true")
	}
	args = append(args, n.Title, n.Message)
	if out, err := exec.CommandContext(ctx, d.bin, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("notify-send: %w: %s", err, out)
	}
	return nil
}

// Log records notifications in the structured log. It never fails and is
// meant as the last link of a headless Chain.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger.Named("notify")}
}

func (l *Log) Deliver(_ context.Context, n Notification) error {
	l.logger.Info("alarm",
		zap.String("id", n.ID),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
		zap.Bool("sound", n.SoundEnabled),
		zap.Bool("vibration", n.VibrationEnabled))
	return nil
}
