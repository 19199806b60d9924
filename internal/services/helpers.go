// internal/services/helpers.go
package services

import "github.com/lib/pq"

func pqStringArray(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}
