package handlers

import (
	"strconv"
	"strings"

	"shot-factory-ai-bot/internal/adboard"
)

// ParseBrief reads a "brand | product | duration | style" line into an ad
// request. Brand and product are required; duration tolerates a trailing
// "s" or "秒", and everything after the third separator is the style, pipes
// included.
func ParseBrief(text string) (adboard.Request, bool) {
	segments := strings.Split(text, "|")
	if len(segments) < 2 {
		return adboard.Request{}, false
	}

	req := adboard.Request{
		Brand:   strings.TrimSpace(segments[0]),
		Product: strings.TrimSpace(segments[1]),
	}
	if req.Brand == "" || req.Product == "" {
		return adboard.Request{}, false
	}

	if len(segments) >= 3 {
		req.DurationSec = parseBriefDuration(segments[2])
	}
	if len(segments) >= 4 {
		req.Style = strings.TrimSpace(strings.Join(segments[3:], "|"))
	}

	return req, true
}

func parseBriefDuration(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "秒")
	s = strings.TrimSuffix(s, "s")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
