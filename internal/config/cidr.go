package config

import (
	"fmt"
	"net/netip"
)

// ParseSourceCIDR parses the operator's source address in CIDR notation.
// Only IPv4 prefixes are accepted since the ingress rule is written as an
// IPv4 range.
func ParseSourceCIDR(cidr string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: source CIDR %q: %w", ErrConfigInvalid, cidr, err)
	}
	if !prefix.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("%w: source CIDR %q is not IPv4", ErrConfigInvalid, cidr)
	}
	return prefix, nil
}

// IsWorldOpen reports whether the prefix admits every IPv4 address.
func IsWorldOpen(prefix netip.Prefix) bool {
	return prefix.Bits() == 0
}
