package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "pagescout"

	// DefaultUserAgent identifies pagescout in HTTP requests.
	DefaultUserAgent = "pagescout/1.0 (+https://github.com/nao1215/pagescout)"

	// DefaultHTTPRequestTimeout is the absolute deadline for one request,
	// including redirects and reading the body.
	DefaultHTTPRequestTimeout = 15 * time.Second

	// DefaultHTTPRequestMaxAutoRedirects is the number of redirect hops
	// followed before the last response is returned as-is.
	DefaultHTTPRequestMaxAutoRedirects = 7

	// DefaultHTTPServicePointConnectionLimit caps concurrent connections per host.
	DefaultHTTPServicePointConnectionLimit = 200

	// DefaultMaxMemoryUsageCacheTime is the refresh interval of the cached
	// memory monitor.
	DefaultMaxMemoryUsageCacheTime = 5 * time.Second

	// DefaultParserBackend is the hyperlink parser backend used when none is configured.
	DefaultParserBackend = "goquery"
)

// DefaultCharsetAliases maps charset labels seen in the wild to names the
// encoding registry understands. Keys are compared case-insensitively.
func DefaultCharsetAliases() map[string]string {
	return map[string]string{
		"cp1251": "windows-1251",
	}
}

// DefaultDownloadableContentTypes returns the content types the CLI
// downloads when no explicit list is configured.
func DefaultDownloadableContentTypes() []string {
	return []string{"text/html", "text/plain"}
}

// Config holds every option read by the page requester, the content
// extractor and the hyperlink parser. It is populated from NewConfig,
// optionally overlaid by a YAML file, then adjusted by CLI flags.
type Config struct {
	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `yaml:"user_agent"`

	// HTTPRequestTimeout is the absolute request deadline. Zero disables it.
	HTTPRequestTimeout time.Duration `yaml:"http_request_timeout"`

	// HTTPRequestAutoRedirects enables following redirects. When false the
	// 3xx response itself is returned to the caller.
	HTTPRequestAutoRedirects bool `yaml:"http_request_auto_redirects"`

	// HTTPRequestMaxAutoRedirects bounds the redirect chain.
	HTTPRequestMaxAutoRedirects int `yaml:"http_request_max_auto_redirects"`

	// HTTPRequestAutomaticDecompression advertises gzip, deflate and br and
	// decodes compressed bodies before charset detection.
	HTTPRequestAutomaticDecompression bool `yaml:"http_request_automatic_decompression"`

	// HTTPServicePointConnectionLimit caps concurrent connections per host.
	// Zero means no limit.
	HTTPServicePointConnectionLimit int `yaml:"http_service_point_connection_limit"`

	// SSLCertificateValidation verifies server certificates. Disabling it
	// is only meant for crawling hosts with self-signed certificates.
	SSLCertificateValidation bool `yaml:"ssl_certificate_validation"`

	// SendingCookies keeps a cookie jar for the lifetime of the requester.
	SendingCookies bool `yaml:"sending_cookies"`

	// AlwaysLogin sends HTTP Basic credentials with every request.
	AlwaysLogin   bool   `yaml:"always_login"`
	LoginUser     string `yaml:"login_user"`
	LoginPassword string `yaml:"login_password"`

	// Headers are extra request headers added to every request.
	Headers map[string]string `yaml:"headers"`

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string `yaml:"proxy_address"`

	// MaxPageSizeInBytes truncates bodies larger than this. Zero means unlimited.
	MaxPageSizeInBytes int64 `yaml:"max_page_size_in_bytes"`

	// StrictStatus records non-2xx responses as errors instead of responses.
	StrictStatus bool `yaml:"strict_status"`

	// DownloadableContentTypes lists media types the CLI downloads.
	DownloadableContentTypes []string `yaml:"downloadable_content_types"`

	// CharsetAliases is merged over DefaultCharsetAliases by the extractor.
	CharsetAliases map[string]string `yaml:"charset_aliases"`

	RespectMetaRobotsNoFollow       bool `yaml:"respect_meta_robots_no_follow"`
	RespectHTTPXRobotsTagNoFollow   bool `yaml:"respect_http_x_robots_tag_no_follow"`
	RespectAnchorRelNoFollow        bool `yaml:"respect_anchor_rel_no_follow"`
	RespectURLNamedAnchorOrHashbang bool `yaml:"respect_url_named_anchor_or_hashbang"`

	// CleanURLs normalizes every extracted link with purell before it is returned.
	CleanURLs bool `yaml:"clean_urls"`

	// RobotsUserAgent is the agent name matched against user-agent scoped
	// X-Robots-Tag entries such as "pagescout: nofollow".
	RobotsUserAgent string `yaml:"robots_user_agent"`

	// ParserBackend selects the hyperlink parser backend (goquery, html, xpath).
	ParserBackend string `yaml:"parser_backend"`

	// MaxMemoryUsageCacheTime is the refresh interval of the cached memory monitor.
	MaxMemoryUsageCacheTime time.Duration `yaml:"max_memory_usage_cache_time"`
}

// NewConfig creates a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		UserAgent:                       DefaultUserAgent,
		HTTPRequestTimeout:              DefaultHTTPRequestTimeout,
		HTTPRequestAutoRedirects:        true,
		HTTPRequestMaxAutoRedirects:     DefaultHTTPRequestMaxAutoRedirects,
		HTTPServicePointConnectionLimit: DefaultHTTPServicePointConnectionLimit,
		SSLCertificateValidation:        true,
		Headers:                         map[string]string{},
		DownloadableContentTypes:        DefaultDownloadableContentTypes(),
		CharsetAliases:                  DefaultCharsetAliases(),
		RobotsUserAgent:                 AppName,
		ParserBackend:                   DefaultParserBackend,
		MaxMemoryUsageCacheTime:         DefaultMaxMemoryUsageCacheTime,
	}
}

// XDGDataDir returns the XDG data directory for pagescout, where the
// fetch history database lives.
// On Linux: ~/.local/share/pagescout
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pagescout.
// On Linux: ~/.config/pagescout
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.HTTPRequestTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.HTTPRequestMaxAutoRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.HTTPServicePointConnectionLimit < 0 {
		return ErrInvalidConnectionLimit
	}
	if c.MaxPageSizeInBytes < 0 {
		return ErrInvalidMaxPageSize
	}
	if c.MaxMemoryUsageCacheTime < 0 {
		return ErrInvalidMemoryCacheTime
	}
	if c.AlwaysLogin && strings.TrimSpace(c.LoginUser) == "" {
		return ErrMissingLoginUser
	}
	for _, v := range c.CharsetAliases {
		if strings.TrimSpace(v) == "" {
			return ErrEmptyCharsetAlias
		}
	}
	return nil
}
