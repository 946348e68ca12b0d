package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/username/tradejournal/src/logger"
)

var ErrDisallowedFile = errors.New("file type not allowed")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AllowedClientContentTypes lists the MIME types a client may declare for a trade history upload.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // Excel labels CSV this way
	"text/plain":               true,
	"application/octet-stream": true,
	xlsxContentType:            true,
}

// AllowedExtensions are the file name extensions accepted for upload.
var AllowedExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".tsv":  true,
	".xlsx": true,
}

// allowedDetectedTypes are the sniffed types consistent with CSV text or an xlsx (zip) workbook.
var allowedDetectedTypes = map[string]bool{
	"text/plain":               true,
	"text/csv":                 true,
	"application/csv":          true,
	"application/octet-stream": true,
	"application/zip":          true,
}

// ValidateClientContentType checks the Content-Type header provided by the client.
// An empty content type is accepted; the magic byte check still runs.
func ValidateClientContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !AllowedClientContentTypes[mediaType] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: client-declared type '%s'", ErrDisallowedFile, contentType)
	}
	return nil
}

// ValidateFileExtension checks the uploaded file name. Files without an extension are accepted.
func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || AllowedExtensions[ext] {
		return nil
	}
	return fmt.Errorf("%w: extension '%s'", ErrDisallowedFile, ext)
}

// ValidateFileContentByMagicBytes sniffs the first 512 bytes and rewinds the file.
// It returns the detected content type.
func ValidateFileContentByMagicBytes(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", err)
	}

	return ValidateContent(buffer[:n])
}

// ValidateContent applies the magic byte check to an in-memory prefix.
func ValidateContent(head []byte) (string, error) {
	detected := http.DetectContentType(head)
	detected = strings.ToLower(strings.Split(detected, ";")[0])

	if !allowedDetectedTypes[detected] {
		logger.L.Warn("Disallowed detected file content type (magic bytes)", "detectedContentType", detected)
		return detected, fmt.Errorf("%w: detected content type '%s'", ErrDisallowedFile, detected)
	}
	logger.L.Debug("File content type (magic bytes) validated", "detectedContentType", detected)
	return detected, nil
}
