//go:build !unix

package source

import "os"

func load(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	return data, false, err
}

func unmap([]byte) error {
	return nil
}
