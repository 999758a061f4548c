// Package ocr suggests a machine reading of an inscription photo using
// Tesseract (via gosseract/v2).
//
// Stone inscriptions are weathered and carved rather than printed, so the
// output is only ever a starting point for a human transcription. Running OCR
// on the enhanced rubbing instead of the raw photo usually helps.
//
// # Prerequisites
//
// Tesseract and the language data for the requested script must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-tel
//   - macOS: brew install tesseract tesseract-lang
//
// Binaries built without cgo cannot link Tesseract; in that case Recognize
// returns ErrUnavailable.
package ocr
