package utils

import (
	"fmt"
	"time"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// NewFolderID generates a client-style time-based folder id.
func NewFolderID(now time.Time) string {
	return fmt.Sprintf("f-%d", now.Unix())
}
