package tmdb

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

func newHTTPclient(timeout time.Duration, socksProxyAddr string) (*http.Client, error) {
	if socksProxyAddr == "" {
		return &http.Client{
			Timeout: timeout,
		}, nil
	}

	dialer, err := proxy.SOCKS5("tcp", socksProxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("Couldn't create SOCKS5 dialer: %v", err)
	}
	return &http.Client{
		Transport: &http.Transport{
			Dial: dialer.Dial,
		},
		Timeout: timeout,
	}, nil
}
