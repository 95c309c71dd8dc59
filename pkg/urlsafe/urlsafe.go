// Package urlsafe decides whether a user-supplied URL may be handed to a
// model or fetcher. The check is purely syntactic and never touches the
// network.
package urlsafe

import (
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

var (
	// cgnat is the carrier-grade NAT shared address space (RFC 6598).
	cgnat = netip.MustParsePrefix("100.64.0.0/10")

	// IPv6 ranges that carry an IPv4 address (RFC 6052, RFC 3056). The
	// local-use NAT64 range (RFC 8215) is never public.
	nat64      = netip.MustParsePrefix("64:ff9b::/96")
	nat64Local = netip.MustParsePrefix("64:ff9b:1::/48")
	sixToFour  = netip.MustParsePrefix("2002::/16")
)

// blockedSuffixes are host suffixes that only resolve inside private networks.
var blockedSuffixes = []string{".localhost", ".local", ".internal", ".localdomain", ".home.arpa"}

// IsSafe reports whether raw is an absolute http(s) URL whose host is a
// public name or public IP literal. It rejects userinfo, loopback, private,
// link-local, unspecified, multicast and CGNAT addresses, including IPv4
// literals written as a single integer or in hex and IPv4 addresses embedded
// in NAT64 or 6to4 literals.
func IsSafe(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n\\") {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return false
	}
	if u.User != nil || u.Opaque != "" {
		return false
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return false
	}
	if port := u.Port(); port != "" {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return false
		}
	}

	if addr, ok := parseIP(host); ok {
		return publicAddr(addr)
	}
	return publicName(host)
}

func publicName(host string) bool {
	if host == "localhost" || !strings.Contains(host, ".") {
		return false
	}
	for _, suffix := range blockedSuffixes {
		if strings.HasSuffix(host, suffix) {
			return false
		}
	}
	return true
}

func publicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		addr.IsUnspecified():
		return false
	}
	if addr.Is4() && (cgnat.Contains(addr) || addr.As4()[0] == 0) {
		return false
	}
	if nat64Local.Contains(addr) {
		return false
	}
	if v4, ok := embeddedIPv4(addr); ok {
		return publicAddr(v4)
	}
	return true
}

// embeddedIPv4 returns the IPv4 address carried by a NAT64 or 6to4 address.
func embeddedIPv4(addr netip.Addr) (netip.Addr, bool) {
	b := addr.As16()
	switch {
	case nat64.Contains(addr):
		return netip.AddrFrom4([4]byte(b[12:16])), true
	case sixToFour.Contains(addr):
		return netip.AddrFrom4([4]byte(b[2:6])), true
	}
	return netip.Addr{}, false
}

// parseIP accepts dotted, bracketed IPv6, and the integer or hex IPv4 forms
// some resolvers still honour (http://2130706433/, http://0x7f000001/).
func parseIP(host string) (netip.Addr, bool) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, true
	}
	if addr, ok := parseLegacyIPv4(host); ok {
		return addr, true
	}
	return netip.Addr{}, false
}

func parseLegacyIPv4(host string) (netip.Addr, bool) {
	parts := strings.Split(host, ".")
	if len(parts) > 4 {
		return netip.Addr{}, false
	}

	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, ok := parseLegacyPart(p)
		if !ok {
			return netip.Addr{}, false
		}
		nums[i] = n
	}

	// The last part fills all remaining bytes: a, a.b, a.b.c, a.b.c.d.
	var v uint64
	for i, n := range nums[:len(nums)-1] {
		if n > 0xff {
			return netip.Addr{}, false
		}
		v |= n << (8 * (3 - i))
	}
	last := nums[len(nums)-1]
	if last >= 1<<(8*(5-len(nums))) {
		return netip.Addr{}, false
	}
	v |= last

	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}), true
}

func parseLegacyPart(p string) (uint64, bool) {
	if p == "" {
		return 0, false
	}
	base := 10
	switch {
	case len(p) > 2 && (p[:2] == "0x" || p[:2] == "0X"):
		base, p = 16, p[2:]
	case len(p) > 1 && p[0] == '0':
		base, p = 8, p[1:]
	}
	n, err := strconv.ParseUint(p, base, 32)
	if err != nil {
		return 0, false
	}
	return n, true
}
