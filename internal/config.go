package internal

import (
	"fmt"
	"os"
)

// MustEnv returns the value of the named variable and panics when it is empty.
func MustEnv(name string) string {
	v := os.Getenv(name)
	if Blank(v) {
		panic(fmt.Sprintf("%s is empty", name))
	}
	return v
}

func EnvOr(name string, fallback string) string {
	v := os.Getenv(name)
	if Blank(v) {
		return fallback
	}
	return v
}
