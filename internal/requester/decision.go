package requester

import (
	"fmt"
	"strings"

	"github.com/nao1215/pagescout/internal/model"
)

// ContentTypeDecision allows downloads whose media type is one of allowed.
// Matching ignores case and Content-Type parameters. An empty list allows
// everything.
func ContentTypeDecision(allowed []string) model.DecisionFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			set[a] = struct{}{}
		}
	}
	return func(r *model.FetchResult) model.CrawlDecision {
		if len(set) == 0 {
			return model.AllowAll(r)
		}
		ct := r.ContentType()
		if _, ok := set[ct]; ok {
			return model.CrawlDecision{Allow: true}
		}
		if ct == "" {
			return model.Deny("content type is not specified")
		}
		return model.Deny(fmt.Sprintf("content type %q is not downloadable", ct))
	}
}

// SuccessStatusDecision refuses bodies of non-2xx responses.
func SuccessStatusDecision(r *model.FetchResult) model.CrawlDecision {
	if r.Response == nil || r.Response.StatusCode < 200 || r.Response.StatusCode > 299 {
		status := ""
		if r.Response != nil {
			status = r.Response.Status
		}
		return model.Deny(fmt.Sprintf("status %q is not downloadable", status))
	}
	return model.CrawlDecision{Allow: true}
}

// ChainDecisions combines policies; the first refusal wins.
func ChainDecisions(fns ...model.DecisionFunc) model.DecisionFunc {
	return func(r *model.FetchResult) model.CrawlDecision {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if d := fn(r); !d.Allow {
				return d
			}
		}
		return model.CrawlDecision{Allow: true}
	}
}
