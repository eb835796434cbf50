// Package requester performs single HTTP page fetches.
//
// A Requester is built from a config.Config and owns one http.Client:
// transport limits, TLS verification, redirect policy, an optional cookie
// jar, an optional SOCKS5 proxy, and injection of credentials and custom
// headers are all derived from the configuration once, at construction.
//
// Each fetch produces a model.FetchResult. The response status and headers
// are handed to a caller-supplied model.DecisionFunc before the body is
// read; only an approved body is downloaded and decoded by the extractor.
// Transport failures never escape as Go errors or panics; they are carried
// in FetchResult.Err.
//
// Usage:
//
//	r, err := requester.New(config.NewConfig())
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	result := r.MakeRequestWithDecision(uri, requester.ContentTypeDecision([]string{"text/html"}))
//	if result.Err != nil {
//		// transport failure
//	}
package requester
