package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"
)

const (
	alpnProtocol = "clip-relay-v1"

	// DefaultCertLifetime bounds an ephemeral relay certificate.
	DefaultCertLifetime = 24 * time.Hour
)

// RelayCertificate loads the relay's certificate from certFile/keyFile,
// or generates an ephemeral one when both are empty.
func RelayCertificate(certFile, keyFile string) (tls.Certificate, error) {
	if certFile == "" && keyFile == "" {
		return GenerateSelfSignedCert(DefaultCertLifetime)
	}
	if certFile == "" || keyFile == "" {
		return tls.Certificate{}, fmt.Errorf("relay certificate needs both cert and key files")
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("load relay certificate: %w", err)
	}
	return cert, nil
}

// GenerateSelfSignedCert creates an in-memory ECDSA certificate valid for
// the given duration. Peers never verify it; the passkey handshake binds
// to the TLS session instead.
func GenerateSelfSignedCert(validFor time.Duration) (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, err
	}

	now := time.Now()
	tmpl := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "clip relay"},
		NotBefore:    now.Add(-time.Minute),
		NotAfter:     now.Add(validFor),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}

func serverTLSConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{alpnProtocol},
		MinVersion:   tls.VersionTLS13,
	}
}

// clientTLSConfig skips chain verification: the relay is authenticated by
// the passkey HMAC, not by a CA.
func clientTLSConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{alpnProtocol},
		MinVersion:         tls.VersionTLS13,
	}
}
