package model

// CrawlDecision is the verdict of a download policy.
type CrawlDecision struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason,omitempty"`
}

// DecisionFunc decides, from the response status and headers, whether
// the body of a fetch should be downloaded. The result passed in has
// Response set but no Content.
type DecisionFunc func(*FetchResult) CrawlDecision

// AllowAll is the default policy: every body is downloaded.
func AllowAll(*FetchResult) CrawlDecision {
	return CrawlDecision{Allow: true}
}

// Deny returns a refusing decision carrying reason.
func Deny(reason string) CrawlDecision {
	return CrawlDecision{Allow: false, Reason: reason}
}
