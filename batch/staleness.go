package batch

import "os"

// NeedsConversion reports whether sourcePath must be (re)converted: true when
// destPath does not exist or when the source was modified after the
// destination was written. It performs no I/O beyond the two stat calls.
func NeedsConversion(sourcePath, destPath string) bool {
	destInfo, err := os.Stat(destPath)
	if err != nil {
		return true
	}

	srcInfo, err := os.Stat(sourcePath)
	if err != nil {
		// Let the converter surface the real error per file.
		return true
	}

	return srcInfo.ModTime().After(destInfo.ModTime())
}
