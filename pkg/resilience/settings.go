package resilience

import "time"

// Defaults applied when a tuning knob is zero or negative.
const (
	defaultInterval         = time.Minute
	defaultTimeout          = 30 * time.Second
	defaultFailureThreshold = 5
	defaultSuccessThreshold = 1
)

// BuildSettings assembles breaker Settings from plain integer knobs as read
// from the environment. Zero or negative knobs fall back to the defaults.
func BuildSettings(name string, intervalSeconds, timeoutSeconds, failureThreshold, successThreshold int) Settings {
	settings := Settings{
		Name:             name,
		Interval:         time.Duration(intervalSeconds) * time.Second,
		Timeout:          time.Duration(timeoutSeconds) * time.Second,
		FailureThreshold: defaultFailureThreshold,
		SuccessThreshold: defaultSuccessThreshold,
	}

	if settings.Interval <= 0 {
		settings.Interval = defaultInterval
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}
	if failureThreshold > 0 {
		settings.FailureThreshold = uint32(failureThreshold)
	}
	if successThreshold > 0 {
		settings.SuccessThreshold = uint32(successThreshold)
	}

	return settings
}
