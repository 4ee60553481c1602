package playback

import "fmt"

// FormatTime renders a duration in seconds as zero-padded mm:ss.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatClock renders the position/total pair as "mm:ss / mm:ss", converting
// source units to seconds at the given native rate.
func FormatClock(position, total int, rate float64) string {
	if rate <= 0 {
		rate = 1
	}
	return fmt.Sprintf("%s / %s",
		FormatTime(float64(position)/rate),
		FormatTime(float64(total)/rate))
}
