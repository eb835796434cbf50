package linkparser

import (
	"strings"
)

// xRobotsDirectivesWithValue are X-Robots-Tag directives written as
// "name: value". Their colon must not be mistaken for a user agent prefix.
var xRobotsDirectivesWithValue = map[string]struct{}{
	"unavailable_after": {},
	"max-snippet":       {},
	"max-image-preview": {},
	"max-video-preview": {},
}

// hasNoFollow reports whether a robots directive list (meta content or
// header value) contains nofollow or none.
func hasNoFollow(directives string) bool {
	for _, d := range strings.FieldsFunc(directives, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	}) {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "nofollow" || d == "none" {
			return true
		}
	}
	return false
}

// xRobotsNoFollow reports whether any X-Robots-Tag value forbids
// following links. Values scoped to a user agent ("otherbot: nofollow")
// only count when the agent equals agent.
func xRobotsNoFollow(values []string, agent string) bool {
	for _, v := range values {
		scope, directives := splitXRobotsScope(v)
		if scope != "" && !strings.EqualFold(scope, strings.TrimSpace(agent)) {
			continue
		}
		if hasNoFollow(directives) {
			return true
		}
	}
	return false
}

func splitXRobotsScope(value string) (scope, directives string) {
	head, rest, found := strings.Cut(value, ":")
	if !found {
		return "", value
	}
	head = strings.TrimSpace(head)
	if head == "" || strings.ContainsAny(head, " ,") {
		return "", value
	}
	if _, ok := xRobotsDirectivesWithValue[strings.ToLower(head)]; ok {
		return "", value
	}
	return head, rest
}

// relHasToken reports whether the space-separated rel value contains token.
func relHasToken(rel, token string) bool {
	for _, f := range strings.Fields(rel) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
