// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ssh

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// ClientConfig returns a ~/.ssh/config stanza so visitors can run `ssh alias`
// against the server listening on addr.
func ClientConfig(alias, addr string) (string, error) {
	if alias == "" || strings.ContainsAny(alias, " \t*?!") {
		return "", fmt.Errorf("invalid host alias %q", alias)
	}
	host, port, err := splitListenAddr(addr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Host %s\n  HostName %s\n  Port %s\n  RequestTTY yes\n", alias, host, port), nil
}

// DefaultClientConfigPath returns ~/.ssh/config.
func DefaultClientConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "config"), nil
}

// FindClientAlias reads the ssh client config at path and returns the first
// alias that already points at addr. A missing file yields no alias.
func FindClientAlias(path, addr string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open ssh config file %s: %w", path, err)
	}
	defer f.Close()

	alias, err := MatchClientAlias(f, addr)
	if err != nil {
		return "", fmt.Errorf("failed to parse ssh config file %s: %w", path, err)
	}
	return alias, nil
}

// MatchClientAlias decodes an ssh client config and returns the first concrete
// Host alias whose HostName and Port resolve to addr.
func MatchClientAlias(r io.Reader, addr string) (string, error) {
	wantHost, wantPort, err := splitListenAddr(addr)
	if err != nil {
		return "", err
	}
	cfg, err := ssh_config.Decode(r)
	if err != nil {
		return "", err
	}

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if alias == "" || strings.ContainsAny(alias, "*?!") {
				continue
			}
			hostname, _ := cfg.Get(alias, "HostName")
			if hostname == "" {
				hostname = alias
			}
			port, _ := cfg.Get(alias, "Port")
			if port == "" {
				port = "22"
			}
			if port == wantPort && sameHost(hostname, wantHost) {
				return alias, nil
			}
		}
	}
	return "", nil
}

// splitListenAddr maps wildcard listen hosts to localhost.
func splitListenAddr(addr string) (host, port string, err error) {
	host, port, err = net.SplitHostPort(addr)
	if err != nil {
		return "", "", fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return host, port, nil
}

func sameHost(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	return isLoopback(a) && isLoopback(b)
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
