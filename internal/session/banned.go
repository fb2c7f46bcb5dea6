package session

import "net"

// BanList is a pluggable predicate checked before a Session is even
// constructed — the Go equivalent of bravo's BannedProtocol, which
// immediately erred and closed for banned IPs rather than running the
// full protocol (SPEC_FULL.md §5). The zero value bans nobody.
type BanList struct {
	banned map[string]struct{}
}

// NewBanList builds a BanList from a set of banned host strings (as
// returned by net.Addr's "host:port" or a bare host).
func NewBanList(hosts ...string) *BanList {
	b := &BanList{banned: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		b.banned[h] = struct{}{}
	}
	return b
}

// IsBanned reports whether addr's host is on the list.
func (b *BanList) IsBanned(addr net.Addr) bool {
	if b == nil {
		return false
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		host = addr.String()
	}
	_, ok := b.banned[host]
	return ok
}
