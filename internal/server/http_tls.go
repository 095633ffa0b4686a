package server

import (
	"crypto/tls"
	"fmt"
	"os"
)

// buildTLSConfig creates the TLS configuration for the server. Returns
// nil when TLS is disabled.
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	switch s.TLSConfig.Mode {
	case "", "disabled":
		return nil, nil
	case "server":
	default:
		return nil, fmt.Errorf("unsupported TLS mode %q", s.TLSConfig.Mode)
	}

	if s.TLSConfig.CertFile == "" || s.TLSConfig.KeyFile == "" {
		return nil, fmt.Errorf("TLS mode %q requires certFile and keyFile", s.TLSConfig.Mode)
	}
	if _, err := os.Stat(s.TLSConfig.CertFile); err != nil {
		return nil, fmt.Errorf("TLS certificate file not accessible: %w", err)
	}
	if _, err := os.Stat(s.TLSConfig.KeyFile); err != nil {
		return nil, fmt.Errorf("TLS key file not accessible: %w", err)
	}

	minVersion, err := parseTLSVersion(s.TLSConfig.MinVersion)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		MinVersion: minVersion,
	}, nil
}

// parseTLSVersion converts a version string to the crypto/tls constant
func parseTLSVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS minimum version %q", version)
	}
}
