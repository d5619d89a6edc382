// Package util holds small helpers shared across the HTTP clients.
package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc creates a proxy function from explicit settings, falling
// back to the standard environment variables when none are given.
// noProxy is a comma-separated list of host suffixes to connect to
// directly.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var skip []string
	for _, host := range strings.Split(noProxy, ",") {
		if host = strings.TrimSpace(host); host != "" {
			skip = append(skip, host)
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, suffix := range skip {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return nil, nil
			}
		}

		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
