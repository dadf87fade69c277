// seehuhn.de/go/pdftext - extract text and tables from PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdftext

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	errVersion         = errors.New("unsupported PDF version")
	errCorrupted       = errors.New("corrupted ciphertext")
	errInvalidPassword = errors.New("invalid password")
	errNoRectangle     = errors.New("not a valid PDF rectangle")

	// ErrNoPageLabels is returned by [Reader.PageLabel] if the document
	// has no /PageLabels number tree.
	ErrNoPageLabels = errors.New("document has no page labels")
)

// AuthenticationError indicates that authentication failed because the correct
// password has not been supplied.
type AuthenticationError struct {
	ID []byte
}

func (err *AuthenticationError) Error() string {
	if err.ID == nil {
		return "authentication failed"
	}
	return fmt.Sprintf("authentication failed for document ID %x", err.ID)
}

// MalformedFileError indicates that the PDF file could not be parsed.
type MalformedFileError struct {
	Err error
	Pos int64
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid PDF file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// ObjectNotFoundError indicates that an indirect object could not be
// resolved.  This covers lookups of object number 0, free objects, and
// objects inside damaged object streams.
type ObjectNotFoundError struct {
	Ref Reference
}

func (err *ObjectNotFoundError) Error() string {
	return "object " + err.Ref.String() + " not found"
}

// DecodeError indicates that a stream filter failed to decode its input.
type DecodeError struct {
	Filter Name
	Pos    int64
	Err    error
}

func (err *DecodeError) Error() string {
	msg := string(err.Filter) + ": decode failed"
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	if err.Pos > 0 {
		msg += " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return msg
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

// UnsupportedError indicates that the file uses a feature which is
// recognized but intentionally not implemented.
type UnsupportedError struct {
	Feature string
}

func (err *UnsupportedError) Error() string {
	return "unsupported feature: " + err.Feature
}

func wrap(err error, where string) error {
	return fmt.Errorf("%s: %w", where, err)
}
