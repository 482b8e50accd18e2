package testutil

import (
	"os"

	. "github.com/onsi/gomega"
)

// TmpFileName returns a fresh temp file path without creating the file.
func TmpFileName() string {
	f, err := os.CreateTemp("", "go_test_tmp_")
	Expect(err).To(BeNil())
	filename := f.Name()
	Expect(f.Close()).To(Succeed())
	Expect(os.Remove(filename)).To(Succeed())
	return filename
}
