package gracedown

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultDeadline is the shutdown deadline used when the environment does not
// provide one, or provides one that cannot be parsed.
const DefaultDeadline = 5 * time.Second

// DeadlineEnvKey is the environment variable consulted for the deadline. It
// accepts a whole number of seconds ("10") or a Go duration string ("1m30s").
const DeadlineEnvKey = "GRACEDOWN_SHUTDOWN_DEADLINE"

// DeadlineFromEnv reads the shutdown deadline from the environment, falling
// back to DefaultDeadline when the value is absent, unparsable, or not
// positive. A bad value is never an error: shutdown must still be bounded.
func DeadlineFromEnv() time.Duration {
	v := viper.New()
	v.SetEnvPrefix("gracedown")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	raw := v.GetString("shutdown-deadline")
	if raw == "" {
		return DefaultDeadline
	}
	d, err := parseDeadline(raw)
	if err != nil {
		return DefaultDeadline
	}
	return d
}

// parseDeadline interprets raw as seconds when it is a bare integer,
// otherwise as a Go duration string. Non-positive values are rejected.
func parseDeadline(raw string) (time.Duration, error) {
	var d time.Duration
	if secs, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid shutdown deadline %q", raw)
		}
		d = parsed
	}
	if d <= 0 {
		return 0, errors.Errorf("non-positive shutdown deadline %q", raw)
	}
	return d, nil
}
