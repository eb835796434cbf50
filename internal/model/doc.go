// Package model defines the data structures shared by the requester,
// the extractor, the link parser and the report writers.
//
// This package contains the following main types:
//   - FetchResult: the outcome of one HTTP fetch, including timing
//   - PageContent: the raw body plus its resolved encoding and decoded text
//   - CrawlDecision: the verdict of a caller-supplied download policy
//
// The types live in their own package so that requester, linkparser and
// report can share them without importing each other.
package model
