// Package trigger scans single adversary messages for conclusive artifacts:
// payment addresses, malware lures, links, and contact handles. A hit ends
// the decoy engagement, so the cascade encodes a strict severity ranking and
// the scan stops at the first match.
package trigger

import "regexp"

// Type enumerates the kinds of conclusive evidence, from most to least
// severe. A payment address is definitive proof of monetization intent and
// must never be masked by a URL or email appearing earlier in the message.
type Type string

const (
	TypeCryptoWallet      Type = "crypto_wallet"
	TypeMaliciousFileLure Type = "malicious_file_lure"
	TypeURL               Type = "url"
	TypeContactEmail      Type = "contact_email"
)

// Evidence is the artifact extracted from a message.
type Evidence struct {
	Type  Type   `json:"type"`
	Value string `json:"value"`
	// Coin is set for TypeCryptoWallet only ("BTC", "ETH").
	Coin string `json:"coin,omitempty"`
}

// Pre-compiled patterns, compiled once at package init.
var (
	reBTC = regexp.MustCompile(`\b(bc1|[13])[a-zA-HJ-NP-Z0-9]{25,39}\b`)
	reETH = regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`)
	// Token ending in an extension that delivers code: executables, archives,
	// screensavers, installers, disk images, Android packages.
	reFileLure = regexp.MustCompile(`(?i)\b\w+\.(exe|zip|scr|msi|dmg|apk)\b`)
	reURL      = regexp.MustCompile(`https?://[^\s/$.?#].[^\s]*`)
	reEmail    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// scanner pairs a pattern with the evidence it produces. Kept as an ordered
// slice rather than one combined regex: the slice order IS the severity
// ranking, and new trigger kinds slot in without touching scan logic.
type scanner struct {
	typ     Type
	coin    string
	pattern *regexp.Regexp
}

var cascade = []scanner{
	{TypeCryptoWallet, "BTC", reBTC},
	{TypeCryptoWallet, "ETH", reETH},
	{TypeMaliciousFileLure, "", reFileLure},
	{TypeURL, "", reURL},
	{TypeContactEmail, "", reEmail},
}

// Scan checks a single message against the cascade and returns the first
// match, or nil if the message contains no conclusive artifact.
func Scan(message string) *Evidence {
	for _, s := range cascade {
		if m := s.pattern.FindString(message); m != "" {
			return &Evidence{Type: s.typ, Value: m, Coin: s.coin}
		}
	}
	return nil
}
