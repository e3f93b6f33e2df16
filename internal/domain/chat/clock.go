package chat

import "time"

// timestampLayout is fixed-width so stored timestamps sort lexicographically
// and SQLite's DATE() can slice them by day.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// nowFunc is swapped in tests to control timestamps.
var nowFunc = time.Now

func now() string {
	return nowFunc().UTC().Format(timestampLayout)
}
