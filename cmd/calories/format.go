// ABOUTME: Output helpers shared by CLI commands.
// ABOUTME: Column padding, truncation, short IDs, and calorie formatting.
package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var faint = color.New(color.Faint)

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// shortID is the 8-character prefix shown in listings.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// kcal renders a calorie amount with thousands separators and at most one decimal.
func kcal(v float64) string {
	return humanize.Commaf(math.Round(v*10)/10) + " kcal"
}

func parseNumber(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, s)
	}
	return v, nil
}
