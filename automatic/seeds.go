package automatic

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"lukechampine.com/frand"

	"github.com/sb3ogun/naasii-game/errs"
)

// GenerateSeeds creates n random 32-byte seeds for deterministic game runs.
func GenerateSeeds(n int) [][32]byte {
	seeds := make([][32]byte, n)
	for i := range seeds {
		frand.Read(seeds[i][:])
	}
	return seeds
}

// SaveSeeds writes seeds to a file in base64 format (one per line).
func SaveSeeds(seeds [][32]byte, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create seed file: %w", errs.ErrPersistence, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString("# Naasii game seeds (base64 URL-safe encoded, 32 bytes each)\n"); err != nil {
		return fmt.Errorf("%w: failed to write header: %w", errs.ErrPersistence, err)
	}
	for i, seed := range seeds {
		encoded := base64.RawURLEncoding.EncodeToString(seed[:])
		if _, err := writer.WriteString(encoded + "\n"); err != nil {
			return fmt.Errorf("%w: failed to write seed %d: %w", errs.ErrPersistence, i, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrPersistence, err)
	}
	return nil
}

// LoadSeeds reads seeds written by SaveSeeds. Blank lines and # comments are
// skipped.
func LoadSeeds(path string) ([][32]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open seed file: %w", errs.ErrPersistence, err)
	}
	defer file.Close()

	var seeds [][32]byte
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode seed at line %d: %w", errs.ErrInput, lineNum, err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("%w: invalid seed length at line %d: got %d bytes, expected 32",
				errs.ErrInput, lineNum, len(decoded))
		}
		var seed [32]byte
		copy(seed[:], decoded)
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: error reading seed file: %w", errs.ErrPersistence, err)
	}
	return seeds, nil
}
