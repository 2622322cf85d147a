//go:build unix

package source

import (
	"os"

	"golang.org/x/sys/unix"
)

// load maps path read-only, falling back to a plain read when mmap fails.
func load(path string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	size := st.Size()
	if size > int64(int(^uint(0)>>1)) {
		return nil, false, unix.EFBIG
	}

	if size > 0 && st.Mode().IsRegular() {
		data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			return data, true, nil
		}
	}
	data, err := readAll(f, int(size))
	return data, false, err
}

func unmap(data []byte) error {
	return unix.Munmap(data)
}
