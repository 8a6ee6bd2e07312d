package netinfo

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Prompter asks the user for a value, returning def on an empty answer.
type Prompter interface {
	Prompt(title, def string) (string, error)
}

// Resolver detects the bridge subnet and falls back to asking the user.
// Detected subnets are remembered in the embedded Stash.
type Resolver struct {
	*Stash
	nl     Netlinker
	iface  string
	def    string
	prompt Prompter
}

func NewResolver(stash *Stash, nl Netlinker, iface, def string, prompt Prompter) *Resolver {
	return &Resolver{Stash: stash, nl: nl, iface: iface, def: def, prompt: prompt}
}

func (r *Resolver) Detect(_ context.Context) (string, error) {
	subnet, err := BridgeSubnet(r.nl, r.iface)
	if err == nil {
		log.Info().Str("interface", r.iface).Str("subnet", subnet).Msg("detected bridge subnet")
		return subnet, nil
	}
	log.Warn().Err(err).Str("interface", r.iface).Msg("failed to auto-detect bridge subnet")
	return r.prompt.Prompt("Failed to auto-detect "+r.iface+" subnet. Please enter the subnet manually", r.def)
}

// DefaultClient returns the stashed subnet, or fallback when none was stashed.
func (r *Resolver) DefaultClient(fallback string) string {
	subnet, err := r.Subnet()
	if err != nil {
		log.Warn().Err(err).Msg("failed to read stashed subnet")
	}
	if subnet == "" {
		return fallback
	}
	return subnet
}
