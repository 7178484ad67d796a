// Package domain contains core concepts of the chat system.
// This file defines the routing identity of a participant.
// No runtime, network, or UI logic should be added here.
package domain

import "strings"

// DefaultIdentitySuffix is appended by the institutional identity provider to every display name.
const DefaultIdentitySuffix = " -IIITK"

// Identity is the routing key of a user. It is recomputed on every authentication
// and never stored on its own.
type Identity string

func (i Identity) String() string {
	return string(i)
}

// IdentityFromDisplayName derives the routing identity from a verified display name
// by removing the first occurrence of the institutional suffix.
func IdentityFromDisplayName(displayName, suffix string) Identity {
	if suffix == "" {
		return Identity(displayName)
	}
	return Identity(strings.Replace(displayName, suffix, "", 1))
}
