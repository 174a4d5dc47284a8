// Package iban validates International Bank Account Numbers.
package iban

import (
	"strings"

	"github.com/jbub/banking/iban"
)

// Valid reports whether s is a well-formed IBAN with a correct check sum and a
// country specific account structure. Spaces and letter case are ignored.
func Valid(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return false
	}
	return iban.Validate(s) == nil
}
