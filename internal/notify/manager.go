package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"benchdiff/internal/benchmark"

	"github.com/spf13/viper"
)

// Message size limits of the chat APIs.
const (
	slackMaxText      = 39000
	discordMaxContent = 2000
)

const truncatedMarker = "\n…(truncated)"

// Environment variables holding provider credentials.
const (
	SlackTokenEnv     = "SLACK_BOT_USER_TOKEN"
	DiscordWebhookEnv = "DISCORD_WEBHOOK_URL"
)

// Manager fans a message out to every configured provider.
type Manager struct {
	notifiers map[string]Notifier
	logger    func(string, ...interface{})
}

// NewManager creates a Manager from the notifications.* configuration.
// Providers that are enabled but lack credentials are skipped with a warning.
func NewManager(logger func(string, ...interface{})) *Manager {
	m := &Manager{
		notifiers: make(map[string]Notifier),
		logger:    logger,
	}
	m.initSlack()
	m.initDiscord()
	return m
}

func (m *Manager) initSlack() {
	if !viper.GetBool("notifications.slack.enabled") {
		return
	}

	botToken := os.Getenv(SlackTokenEnv)
	if botToken == "" {
		m.logf("Warning: %s not set, slack notifications disabled", SlackTokenEnv)
		return
	}
	m.notifiers["slack"] = NewSlackNotifier(botToken, viper.GetString("notifications.slack.channel"))
}

func (m *Manager) initDiscord() {
	if !viper.GetBool("notifications.discord.enabled") {
		return
	}

	url := viper.GetString("notifications.discord.webhook_url")
	if url == "" {
		url = os.Getenv(DiscordWebhookEnv)
	}
	if url == "" {
		m.logf("Warning: %s not set, discord notifications disabled", DiscordWebhookEnv)
		return
	}
	m.notifiers["discord"] = NewDiscordNotifier(url)
}

// Enabled reports whether any provider is configured.
func (m *Manager) Enabled() bool {
	return len(m.notifiers) > 0
}

// Notify sends message to every provider. A failing provider does not stop
// the others; all failures are returned joined.
func (m *Manager) Notify(ctx context.Context, message string) error {
	var errs []error
	for name, n := range m.notifiers {
		m.logf("Sending %s notification", name)
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) logf(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger(format, args...)
	}
}

// MetricSummary pairs a metric with its comparison counts.
type MetricSummary struct {
	Metric  string
	Summary benchmark.Summary
}

// FormatMessage builds the chat message for a comparison run: one status
// line per metric followed by the markdown report in a code block.
func FormatMessage(title string, summaries []MetricSummary, report string) string {
	var b strings.Builder

	status := ":white_check_mark:"
	for _, s := range summaries {
		if s.Summary.Failures > 0 {
			status = ":x:"
			break
		}
		if s.Summary.Regressions > 0 {
			status = ":warning:"
		}
	}

	fmt.Fprintf(&b, "%s *%s*\n", status, title)
	for _, s := range summaries {
		fmt.Fprintf(&b, "• %s: %d compared, %d new, %d removed, %d regression(s), %d improvement(s)\n",
			s.Metric, s.Summary.Compared, s.Summary.New, s.Summary.Removed, s.Summary.Regressions, s.Summary.Improvements)
	}
	if report != "" {
		b.WriteString("```\n")
		b.WriteString(report)
		b.WriteString("\n```")
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncate limits s to max runes, marking the cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	keep := max - len([]rune(truncatedMarker))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + truncatedMarker
}
