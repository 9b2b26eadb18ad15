package security

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid         bool   // Whether the file passed all validation checks
	Extension     string // Detected file extension
	DetectedMIME  string // MIME type sniffed from content
	CanonicalMIME string // MIME type the extension stands for
	Error         string // Error message if validation failed
}

// Magic byte signatures for resume formats
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
}

// Resume extensions and the MIME type each one is stored as
var resumeExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Sniffed types accepted per extension. DOC is often only recognised as a
// generic OLE container and DOCX as a plain ZIP.
var acceptedMIMEs = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// DetectMIME sniffs the content type from the leading bytes
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

// ValidateResume performs 3-layer file validation:
// 1. Extension whitelist check
// 2. Magic byte verification (content matches extension)
// 3. Sniffed MIME type (or one of its parents) must fit the extension
func ValidateResume(filename string, data []byte) FileValidationResult {
	detected := mimetype.Detect(data)
	result := FileValidationResult{DetectedMIME: detected.String()}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	// Layer 1: Extension whitelist
	canonical, ok := resumeExtensions[ext]
	if !ok {
		result.Error = "file extension not allowed: " + ext
		return result
	}
	result.CanonicalMIME = canonical

	// Layer 2: Magic byte validation
	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension (potential file spoofing detected)"
		return result
	}

	// Layer 3: MIME type whitelist, walking up the detection tree
	for m := detected; m != nil; m = m.Parent() {
		for _, accepted := range acceptedMIMEs[ext] {
			if m.Is(accepted) {
				result.Valid = true
				return result
			}
		}
	}

	result.Error = "MIME type not allowed: " + detected.String()
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}
