// Package config provides the configuration consumed by the page requester,
// the content extractor and the hyperlink parser.
//
// A Config starts from NewConfig defaults and may be overlaid by a YAML
// file (see LoadConfigFile). Keys that are absent from the file keep their
// default values, so a file only needs to mention what it changes.
package config
