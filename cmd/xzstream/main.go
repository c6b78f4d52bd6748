// Package main provides the xzstream CLI tool for inspecting and decoding
// xz containers on local disk, S3, GCS or HTTP.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
