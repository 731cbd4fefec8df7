package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCert writes a self-signed certificate for name into dir
func writeCert(t *testing.T, dir, name string) (certFile, keyFile string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: name},
		DNSNames:     []string{name},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "server.crt")
	keyFile = filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600))
	return certFile, keyFile
}

func leafName(t *testing.T, r *certReloader) string {
	t.Helper()
	cert, err := r.GetCertificate(nil)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return leaf.Subject.CommonName
}

func TestCertReloader(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeCert(t, dir, "first.example")

	r, err := newCertReloader(certFile, keyFile)
	require.NoError(t, err)
	assert.Equal(t, "first.example", leafName(t, r))

	writeCert(t, dir, "second.example")
	r.onChange(certFile)
	assert.Equal(t, "second.example", leafName(t, r))

	// A broken pair keeps the last good certificate
	require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0600))
	r.onChange(keyFile)
	assert.Equal(t, "second.example", leafName(t, r))
}

func TestCertReloaderMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := newCertReloader(filepath.Join(dir, "a.crt"), filepath.Join(dir, "a.key"))
	assert.ErrorContains(t, err, "load certificate")
}

func TestServerTLSConfigWithCA(t *testing.T) {
	certFile, _ := writeCert(t, t.TempDir(), "ca.example")

	cfg, err := serverTLSConfig(pluginWithCA(certFile, true))
	require.NoError(t, err)
	assert.NotNil(t, cfg.ClientCAs)
	assert.Equal(t, "RequireAndVerifyClientCert", cfg.ClientAuth.String())

	cfg, err = serverTLSConfig(pluginWithCA(certFile, false))
	require.NoError(t, err)
	assert.Equal(t, "VerifyClientCertIfGiven", cfg.ClientAuth.String())
}
