package cli

import "fmt"

// FormatDuration renders a millisecond count for humans: "450ms", "2.5s",
// "1m30.0s".
func FormatDuration(ms int) string {
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60_000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dm%.1fs", ms/60_000, float64(ms%60_000)/1000)
}

// FormatSimilarity renders a cosine similarity as a percentage: "87.6%".
func FormatSimilarity(sim float64) string {
	return fmt.Sprintf("%.1f%%", sim*100)
}
