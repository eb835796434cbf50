package report

import (
	"net/http"
	"time"

	"github.com/nao1215/pagescout/internal/model"
)

// Entry is one fetched page and the links extracted from it.
type Entry struct {
	Result  *model.FetchResult
	Links   []string
	Backend string
}

// Outcome classifies an entry for summaries.
type Outcome string

// Outcome values.
const (
	OutcomeDownloaded Outcome = "downloaded"
	OutcomeRefused    Outcome = "refused"
	OutcomeFailed     Outcome = "failed"
)

// Outcome returns how the fetch ended.
func (e Entry) Outcome() Outcome {
	switch {
	case e.Result == nil || e.Result.Err != nil:
		return OutcomeFailed
	case e.Result.Content == nil:
		return OutcomeRefused
	default:
		return OutcomeDownloaded
	}
}

// Summary counts entries by outcome.
type Summary struct {
	Total      int `json:"total"`
	Downloaded int `json:"downloaded"`
	Refused    int `json:"refused"`
	Failed     int `json:"failed"`
	Links      int `json:"links"`
}

// Summarize counts entries by outcome and totals their links.
func Summarize(entries []Entry) Summary {
	s := Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Outcome() {
		case OutcomeDownloaded:
			s.Downloaded++
		case OutcomeRefused:
			s.Refused++
		case OutcomeFailed:
			s.Failed++
		}
		s.Links += len(e.Links)
	}
	return s
}

// entryView is the flattened, serializable form of an Entry.
type entryView struct {
	URL            string   `json:"url"`
	FinalURL       string   `json:"final_url,omitempty"`
	Outcome        Outcome  `json:"outcome"`
	StatusCode     int      `json:"status_code,omitempty"`
	Status         string   `json:"status,omitempty"`
	ContentType    string   `json:"content_type,omitempty"`
	Error          string   `json:"error,omitempty"`
	DecisionReason string   `json:"decision_reason,omitempty"`
	ElapsedMs      int64    `json:"elapsed_ms"`
	DownloadMs     int64    `json:"download_ms,omitempty"`
	Charset        string   `json:"charset,omitempty"`
	Encoding       string   `json:"encoding,omitempty"`
	Bytes          int      `json:"bytes,omitempty"`
	Backend        string   `json:"backend,omitempty"`
	Links          []string `json:"links"`
}

func newEntryView(e Entry) entryView {
	v := entryView{
		Outcome: e.Outcome(),
		Backend: e.Backend,
		Links:   e.Links,
	}
	if v.Links == nil {
		v.Links = []string{}
	}
	r := e.Result
	if r == nil {
		return v
	}

	if r.URI != nil {
		v.URL = r.URI.Redacted()
	}
	if r.Request != nil && r.Request.FinalURL != nil && r.Request.FinalURL.String() != r.URIString() {
		v.FinalURL = r.Request.FinalURL.Redacted()
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	if r.Response != nil {
		v.StatusCode = r.Response.StatusCode
		v.Status = r.Response.Status
		if v.Status == "" {
			v.Status = http.StatusText(r.Response.StatusCode)
		}
		v.ContentType = r.ContentType()
	}
	v.DecisionReason = r.DecisionReason
	v.ElapsedMs = r.Elapsed().Milliseconds()
	v.DownloadMs = r.DownloadElapsed().Milliseconds()
	if r.Content != nil {
		v.Charset = r.Content.Charset
		v.Encoding = r.Content.EncodingName
		v.Bytes = r.Content.Size()
	}
	return v
}

func formatDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}
