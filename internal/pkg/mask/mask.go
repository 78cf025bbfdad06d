// Package mask produces display-safe partial obfuscations of PII.
package mask

import "strings"

// Email masks the local part of an email address for display:
// the first 3 characters are kept when the local part is longer than
// 4 characters, otherwise only the first. The remainder is replaced
// with four asterisks: "ama.osei@ucc.edu.gh" -> "ama****@ucc.edu.gh".
func Email(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return addr
	}
	local, rest := addr[:at], addr[at:]
	keep := 1
	if len(local) > 4 {
		keep = 3
	}
	return local[:keep] + "****" + rest
}
