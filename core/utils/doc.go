// Package utils provides common utility functions for livestream-sync.
// It includes helper functions for converting loosely typed API values
// (JSON numbers, strings) into the types the domain model expects.
package utils
