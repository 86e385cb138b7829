package utils

import (
	"log"
	"os"
)

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// MustGetenv retrieves a required environment variable and exits the process
// if it is missing or empty. Used for secrets that must not ship with a
// baked-in default, such as the JWT signing key.
func MustGetenv(key string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return value
}
