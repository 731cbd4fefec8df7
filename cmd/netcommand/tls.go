package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"sync"

	"netcommand/internal/config"
)

// certReloader serves the dispatcher certificate and swaps it when the
// files on disk change
type certReloader struct {
	certFile string
	keyFile  string

	mu   sync.RWMutex
	cert *tls.Certificate
}

func newCertReloader(certFile, keyFile string) (*certReloader, error) {
	r := &certReloader{certFile: certFile, keyFile: keyFile}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// reload keeps the current certificate when the new pair does not load,
// so a half-written rotation does not take the dispatcher down
func (r *certReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("load certificate: %w", err)
	}
	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()
	return nil
}

func (r *certReloader) onChange(path string) {
	if err := r.reload(); err != nil {
		log.Printf("Keeping previous certificate: %v", err)
		return
	}
	log.Printf("Reloaded certificate after change to %s", path)
}

func (r *certReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// serverTLSConfig builds the dispatcher TLS settings. With ca_verify every
// client must present a certificate signed by ca_cert.
func serverTLSConfig(p config.PluginConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if p.CACert == "" {
		return tlsConfig, nil
	}

	pem, err := os.ReadFile(p.CACert)
	if err != nil {
		return nil, fmt.Errorf("read ca_cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("ca_cert %s: no certificates found", p.CACert)
	}
	tlsConfig.ClientCAs = pool
	if p.CAVerify {
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	} else {
		tlsConfig.ClientAuth = tls.VerifyClientCertIfGiven
	}
	return tlsConfig, nil
}
