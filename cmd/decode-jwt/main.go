// Command decode-jwt decodes a JWT and pretty-prints its header,
// payload and signature segments. It does not validate signatures and
// is meant for debugging only.
//
// Usage:
//
//	decode-jwt <jwt-token>
//	echo <jwt-token> | decode-jwt -
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwtkit/jwtkit/internal/token"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run holds the whole CLI so tests can drive it with fake streams.
// Usage problems go to stderr; token problems go to stdout, alongside
// the output they interrupt.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: decode-jwt <jwt-token>")
		fmt.Fprintln(stderr, "   or: echo <jwt-token> | decode-jwt -")
		return 1
	}

	input := args[0]
	if input == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "error reading stdin: %v\n", err)
			return 1
		}
		input = strings.TrimSpace(string(raw))
	}

	tok, err := token.Parse(input)
	if err != nil {
		fmt.Fprintf(stdout, "Error decoding JWT: %v\n", err)
		return 1
	}

	if err := tok.Render(stdout); err != nil {
		fmt.Fprintf(stderr, "error writing output: %v\n", err)
		return 1
	}
	return 0
}
