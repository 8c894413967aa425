package rawdoc

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/docintel/internal/domain"
)

// Document is an uploaded file reference plus its recognized text.
// Text is attached once; later changes go through Correct.
type Document struct {
	id          string
	ownerID     string
	fileRef     string
	mimeType    string
	text        string
	hasText     bool
	uploadedAt  time.Time
	correctedAt time.Time
}

// New validates and creates a Document without text.
func New(id, ownerID, fileRef, mimeType string, uploadedAt time.Time) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(ownerID) == "" {
		return Document{}, fmt.Errorf("%w: owner ID is required", domain.ErrInvalidInput)
	}
	return Document{
		id:         id,
		ownerID:    ownerID,
		fileRef:    fileRef,
		mimeType:   mimeType,
		uploadedAt: uploadedAt.UTC(),
	}, nil
}

// AttachText records the recognized text. Fails if text was already attached.
func (d *Document) AttachText(text string) error {
	if d.hasText {
		return fmt.Errorf("%w: text already attached to document %s", domain.ErrInvalidInput, d.id)
	}
	d.text = text
	d.hasText = true
	return nil
}

// Correct replaces attached text with a user correction.
func (d *Document) Correct(text string, now time.Time) error {
	if !d.hasText {
		return fmt.Errorf("%w: no text to correct on document %s", domain.ErrInvalidInput, d.id)
	}
	d.text = text
	d.correctedAt = now.UTC()
	return nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// OwnerID returns the owning user.
func (d *Document) OwnerID() string { return d.ownerID }

// FileRef returns the storage reference of the binary.
func (d *Document) FileRef() string { return d.fileRef }

// MIMEType returns the upload MIME type.
func (d *Document) MIMEType() string { return d.mimeType }

// Text returns the recognized text and whether OCR has completed.
func (d *Document) Text() (string, bool) { return d.text, d.hasText }

// UploadedAt returns the upload time.
func (d *Document) UploadedAt() time.Time { return d.uploadedAt }

// CorrectedAt returns the last correction time, zero if never corrected.
func (d *Document) CorrectedAt() time.Time { return d.correctedAt }
