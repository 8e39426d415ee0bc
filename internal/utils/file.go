package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExts are the input extensions offered by the collage file picker
var imageExts = []string{"jpg", "jpeg", "png", "webp", "jfif"}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension
func IsImageFile(filename string) bool {
	ext := GetFileExtension(filename)
	for _, imgExt := range imageExts {
		if ext == imgExt {
			return true
		}
	}
	return false
}

// IsURL reports whether source is an http(s) URL
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ListImageFiles lists the image files directly inside dir, sorted by name
func ListImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && IsImageFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ExpandSources turns a list of files, directories and URLs into the
// ordered list of images to load. Directories expand to their image files
// in name order; files and URLs are kept as given.
func ExpandSources(sources []string) ([]string, error) {
	var out []string
	for _, source := range sources {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}
		if IsURL(source) {
			out = append(out, source)
			continue
		}

		if DirExists(source) {
			files, err := ListImageFiles(source)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", source, err)
			}
			out = append(out, files...)
			continue
		}

		if !FileExists(source) {
			return nil, fmt.Errorf("input not found: %s", source)
		}
		out = append(out, source)
	}
	return out, nil
}

// GenerateOutputFilename builds outputDir/<prefix>collage.<format>
func GenerateOutputFilename(outputDir, prefix, format string) string {
	if format == "" {
		format = "jpg"
	}
	return filepath.Join(outputDir, fmt.Sprintf("%scollage.%s", prefix, strings.TrimPrefix(format, ".")))
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists
func DirExists(dirname string) bool {
	info, err := os.Stat(dirname)
	if err != nil {
		return false
	}
	return info.IsDir()
}
