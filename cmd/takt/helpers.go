package main

import (
	"strconv"
	"time"
)

const timeResolution = 10 * time.Millisecond

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func formatCount(value int) string {
	return strconv.Itoa(value)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
