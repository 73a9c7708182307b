// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import "strings"

// warnings collects triggered conditions for one request in the order
// they were found.
type warnings []string

func (w *warnings) add(msg string) {
	if msg = strings.TrimSpace(msg); msg != "" {
		*w = append(*w, msg)
	}
}

// join returns the conditions joined with "; ", or nil when none fired.
func (w warnings) join() *string {
	if len(w) == 0 {
		return nil
	}
	s := strings.Join(w, "; ")
	return &s
}
