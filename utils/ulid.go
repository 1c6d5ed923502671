// Package utils contains shared helpers for IDs and day bucketing.
package utils

import "github.com/oklog/ulid/v2"

func GenerateULID() string {
	return ulid.Make().String()
}
