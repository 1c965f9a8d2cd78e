package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	subject := flag.String("sub", "", "subject to embed in the token (required)")
	audience := flag.String("aud", "", "comma-separated audience values")
	scope := flag.String("scope", "", "scope claim value")
	secret := flag.String("secret", "", "HMAC signing secret (or set JWT_SECRET env var)")
	expiry := flag.Duration("exp", time.Hour, "token expiry duration (e.g. 15m, 24h)")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "error: -sub flag is required")
		flag.Usage()
		os.Exit(1)
	}

	signingSecret := *secret
	if signingSecret == "" {
		signingSecret = os.Getenv("JWT_SECRET")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": *subject,
		"iat": now.Unix(),
		"exp": now.Add(*expiry).Unix(),
	}
	if *audience != "" {
		// A single audience stays a string, several become an array
		values := strings.Split(*audience, ",")
		if len(values) == 1 {
			claims["aud"] = values[0]
		} else {
			claims["aud"] = values
		}
	}
	if *scope != "" {
		claims["scope"] = *scope
	}

	var signed string
	if signingSecret == "" {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		var err error
		signed, err = token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating token: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Warning: token is unsigned (alg=none); do not use in production")
	} else {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		var err error
		signed, err = token.SignedString([]byte(signingSecret))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error signing token: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "Token for subject %s (expires %s):\n", *subject, now.Add(*expiry).Format(time.RFC3339))
	fmt.Println(signed)
}
