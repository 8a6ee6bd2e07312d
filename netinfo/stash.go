package netinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const subnetKey = "SUBNET"

// Stash persists values between runs as an env file.
type Stash struct {
	path string
}

func NewStash(path string) *Stash {
	return &Stash{path: path}
}

func (s *Stash) Path() string { return s.path }

// Subnet returns the stashed subnet, or "" if nothing was stashed yet.
func (s *Stash) Subnet() (string, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read stash %s: %w", s.path, err)
	}
	return values[subnetKey], nil
}

// SetSubnet stores subnet, keeping any other values in the file.
func (s *Stash) SetSubnet(subnet string) error {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read stash %s: %w", s.path, err)
		}
		values = map[string]string{}
	}
	values[subnetKey] = subnet

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create stash dir: %w", err)
	}
	if err := godotenv.Write(values, s.path); err != nil {
		return fmt.Errorf("write stash %s: %w", s.path, err)
	}
	return nil
}
