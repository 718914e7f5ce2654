package kzg

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-kzg4844/params"
)

// LoadTrustedSetupFile loads a trusted setup from the project's reference
// on-disk text format: a decimal count of G1 points, a decimal count of G2
// points, that many whitespace-separated hex-encoded G1-Lagrange points,
// then that many hex-encoded G2-monomial points, then the G1-monomial points
// (appended for the EIP-7594 cell proof path).
func LoadTrustedSetupFile(path string, precompute int) (*Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, badArgsf("trusted setup file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	nextToken := func(what string) (string, error) {
		if !scanner.Scan() {
			if serr := scanner.Err(); serr != nil {
				return "", internalErr(fmt.Sprintf("trusted setup file: reading %s: %v", what, serr))
			}
			return "", badArgsf("trusted setup file: unexpected end of file reading %s", what)
		}
		return scanner.Text(), nil
	}
	nextUint := func(what string) (int, error) {
		tok, err := nextToken(what)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, badArgsf("trusted setup file: %s is not a number: %v", what, err)
		}
		return n, nil
	}
	nextBytes := func(what string, n int) ([]byte, error) {
		tok, err := nextToken(what)
		if err != nil {
			return nil, err
		}
		tok = strings.TrimPrefix(tok, "0x")
		raw, err := hex.DecodeString(tok)
		if err != nil {
			return nil, badArgsf("trusted setup file: %s is not valid hex: %v", what, err)
		}
		if len(raw) != n {
			return nil, badArgsf("trusted setup file: %s has the wrong length", what)
		}
		return raw, nil
	}

	n1, err := nextUint("g1 point count")
	if err != nil {
		return nil, err
	}
	if n1 != params.NumG1Points {
		return nil, badArgsf("trusted setup file: expected %d g1 points, got %d", params.NumG1Points, n1)
	}
	n2, err := nextUint("g2 point count")
	if err != nil {
		return nil, err
	}
	if n2 != params.NumG2Points {
		return nil, badArgsf("trusted setup file: expected %d g2 points, got %d", params.NumG2Points, n2)
	}

	g1Lagrange := make([]byte, 0, n1*params.BytesPerG1)
	for i := 0; i < n1; i++ {
		raw, err := nextBytes("g1 lagrange point", params.BytesPerG1)
		if err != nil {
			return nil, err
		}
		g1Lagrange = append(g1Lagrange, raw...)
	}

	g2Monomial := make([]byte, 0, n2*params.BytesPerG2)
	for i := 0; i < n2; i++ {
		raw, err := nextBytes("g2 monomial point", params.BytesPerG2)
		if err != nil {
			return nil, err
		}
		g2Monomial = append(g2Monomial, raw...)
	}

	g1Monomial := make([]byte, 0, n1*params.BytesPerG1)
	for i := 0; i < n1; i++ {
		raw, err := nextBytes("g1 monomial point", params.BytesPerG1)
		if err != nil {
			return nil, err
		}
		g1Monomial = append(g1Monomial, raw...)
	}

	return NewContext4096(g1Monomial, g1Lagrange, g2Monomial, precompute)
}
