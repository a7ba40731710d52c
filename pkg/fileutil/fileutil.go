// Package fileutil provides the low-level file operations the reorganizer's
// executor and reclassifier build on: byte-identical copies with source
// permissions and modification time preserved (the Go analogue of Python's
// shutil.copy2, matching the original's per-copy metadata-preservation step),
// plus the directory/existence helpers every pipeline stage needs when
// placing a file under a VIN folder.
//
// Example usage:
//
//	// Copy a scanned document into its VIN folder, preserving mode/mtime.
//	if err := fileutil.CopyFile("casco.pdf", "output/VIN123/casco.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Rescue a leftover document from a _NO_VIN staging folder.
//	if err := fileutil.SafeMove("staged/contract.pdf", "output/VIN123"); err != nil {
//	    log.Fatal(err)
//	}
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SafeRename renames a document with backup-and-rollback: if dst is already
// occupied, the existing file is backed up first and restored if the rename
// fails partway through.
func SafeRename(src, dst string) error {
	if src == "" || dst == "" {
		return fmt.Errorf("source and destination paths cannot be empty")
	}

	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("source document does not exist: %w", err)
	}

	var backupPath string
	if _, err := os.Stat(dst); err == nil {
		backupPath = dst + ".backup"
		if err := os.Rename(dst, backupPath); err != nil {
			return fmt.Errorf("failed to back up existing destination: %w", err)
		}
	}

	if err := os.Rename(src, dst); err != nil {
		if backupPath != "" {
			os.Rename(backupPath, dst)
		}
		return fmt.Errorf("failed to rename document: %w", err)
	}

	if backupPath != "" {
		os.Remove(backupPath)
	}

	return nil
}

// SafeMove moves a document into a target VIN/partition directory, creating
// the directory if it doesn't exist yet.
func SafeMove(src, dstDir string) error {
	if src == "" || dstDir == "" {
		return fmt.Errorf("source path and destination directory cannot be empty")
	}

	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("source document does not exist: %w", err)
	}

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	fileName := filepath.Base(src)
	dst := filepath.Join(dstDir, fileName)

	return SafeRename(src, dst)
}

// CopyFile copies src to dst byte-for-byte, then carries over the source's
// permission bits and modification time — shutil.copy2's metadata-
// preservation contract, so a copied PDF's mtime still reflects when the
// document was actually issued rather than when it was reorganized.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source document: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination document: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy document content: %w", err)
	}

	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination document: %w", err)
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to get source document info: %w", err)
	}

	if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
		return fmt.Errorf("failed to set document permissions: %w", err)
	}

	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return fmt.Errorf("failed to set document modification time: %w", err)
	}

	return nil
}

// FileExists reports whether a document exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirExists reports whether path exists and is a directory (a VIN or
// partition folder, typically).
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates a VIN/category/partition directory if it doesn't exist
// yet; a no-op if it already does.
func EnsureDir(path string) error {
	if DirExists(path) {
		return nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// GetFileSize returns the size in bytes of the document at path.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get document info: %w", err)
	}

	return info.Size(), nil
}

// IsEmpty reports whether a VIN or _NO_VIN folder currently holds no
// entries, used to decide whether a leftover staging directory can be
// pruned after rescue.
func IsEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open directory: %w", err)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}

	return false, err
}
