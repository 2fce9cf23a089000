// Package notifier sends desktop notifications about pipeline runs
package notifier

import (
	"fmt"
	"time"

	"github.com/funkey7dan/newsroom/pkg/logger"
	"github.com/gen2brain/beeep"
)

// RunNotifier reports run completion and failure
type RunNotifier struct {
	enabled bool
	sound   bool
	logger  logger.Logger
	send    func(title, message, icon string) error
	beep    func(freq float64, duration int) error
}

// Config represents notification configuration
type Config struct {
	Enabled bool
	Sound   bool
}

// New creates a new run notifier
func New(config Config, log logger.Logger) *RunNotifier {
	return &RunNotifier{
		enabled: config.Enabled,
		sound:   config.Sound,
		logger:  log,
		send:    beeep.Notify,
		beep:    beeep.Beep,
	}
}

// NotifyRunComplete notifies that the pipeline drained
func (n *RunNotifier) NotifyRunComplete(printed int, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "📰 Newsroom"
	message := fmt.Sprintf("%d items printed in %s", printed, formatDuration(duration))
	n.sendNotification(title, message)
}

// NotifyRunFailed notifies that the pipeline aborted
func (n *RunNotifier) NotifyRunFailed(err error) {
	if !n.enabled {
		return
	}

	n.sendNotification("❌ Newsroom failed", err.Error())
}

func (n *RunNotifier) sendNotification(title, message string) {
	if err := n.send(title, message, ""); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}

	if n.sound {
		if err := n.beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithField("error", err))
		}
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
