//go:build ignore

// mock-jwks-server.go - local token issuer for the bridgewatch management API
//
// Usage:
//
//	go run scripts/mock-jwks-server.go
//
// Serves the public key at /.well-known/jwks.json and issues RS256 tokens at
// POST /token?sub=analyst@example.com. Point auth.jwks_url at this server.
// The key is generated at startup; tokens do not survive a restart.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"flag"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const keyID = "bridgewatch-dev"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func main() {
	addr := flag.String("addr", ":8088", "listen address")
	issuer := flag.String("issuer", "bridgewatch-dev", "iss claim")
	audience := flag.String("audience", "bridgewatch", "aud claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatalf("generate key: %v", err)
	}

	http.HandleFunc("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"keys": []map[string]string{{
			"kid": keyID,
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	})

	http.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sub := r.URL.Query().Get("sub")
		if sub == "" {
			sub = "analyst@example.com"
		}
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"iss":   *issuer,
			"aud":   *audience,
			"sub":   sub,
			"email": sub,
			"iat":   now.Unix(),
			"exp":   now.Add(*ttl).Unix(),
		})
		token.Header["kid"] = keyID

		signed, err := token.SignedString(key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		log.Printf("issued token for %s", sub)
		writeJSON(w, tokenResponse{AccessToken: signed, TokenType: "Bearer", ExpiresIn: int(ttl.Seconds())})
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	log.Printf("mock JWKS server on %s (issuer=%s audience=%s)", *addr, *issuer, *audience)
	srv := &http.Server{Addr: *addr, ReadHeaderTimeout: 5 * time.Second}
	log.Fatal(srv.ListenAndServe())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
