// Package utils provides utility functions for the application.
package utils

import "strings"

// ContainsFold reports whether list holds value, ignoring case and surrounding spaces
func ContainsFold(list []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), value) {
			return true
		}
	}
	return false
}
