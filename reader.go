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
	"bytes"
	"errors"
	"io"
	"sync"
)

// ReaderOptions controls how a PDF file is opened.
type ReaderOptions struct {
	// Password is tried before ReadPassword is consulted.
	Password string

	// ReadPassword is called to request a password when the file is
	// encrypted and previous passwords were wrong.  The function
	// receives the document ID and the number of previous attempts;
	// returning "" gives up.
	ReadPassword func(ID []byte, try int) string
}

// Reader gives access to the objects of a PDF file.
//
// A Reader is created once and is then safe for concurrent use: the
// input buffer is never modified, and the object cache uses internal
// locking.
type Reader struct {
	buf  []byte
	size int64

	// Version is the PDF version from the file header, e.g. "1.7".
	Version string

	// Trailer is the merged trailer dictionary.
	Trailer Dict

	// ID holds the two elements of the /ID array, if present.
	ID [][]byte

	// Repaired is set if the cross-reference information was
	// reconstructed by scanning the file.
	Repaired bool

	xref map[uint32]*xrefEntry
	enc  *encryptInfo

	mu         sync.Mutex
	cache      *lruCache
	inProgress map[uint32]bool

	pageLabels []*pageLabelRange // lazily built, see pages.go
}

// NewReader reads a complete PDF file from r and prepares it for object
// access.
func NewReader(r io.Reader, opt *ReaderOptions) (*Reader, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Open(buf, opt)
}

// Open prepares an in-memory PDF file for object access.  The buffer is
// kept by the Reader and must not be modified afterwards.
func Open(buf []byte, opt *ReaderOptions) (*Reader, error) {
	if opt == nil {
		opt = &ReaderOptions{}
	}

	r := &Reader{
		buf:        buf,
		size:       int64(len(buf)),
		xref:       make(map[uint32]*xrefEntry),
		cache:      newCache(cacheSize),
		inProgress: make(map[uint32]bool),
	}

	version, err := r.readHeaderVersion()
	if err != nil {
		return nil, err
	}
	r.Version = version

	trailer, err := r.readTrailer()
	if err != nil {
		return nil, err
	}
	r.Trailer = trailer

	if idArr, ok := trailer["ID"].(Array); ok {
		for _, elem := range idArr {
			if s, ok := elem.(String); ok {
				r.ID = append(r.ID, []byte(s))
			}
		}
	}

	if encObj, present := trailer["Encrypt"]; present {
		readPwd := opt.ReadPassword
		if opt.Password != "" {
			first := opt.Password
			inner := readPwd
			readPwd = func(ID []byte, try int) string {
				if try == 0 {
					return first
				}
				if inner != nil {
					return inner(ID, try-1)
				}
				return ""
			}
		}
		enc, err := r.parseEncryptDict(encObj, readPwd)
		if err != nil {
			return nil, err
		}
		// authenticate now, so that a wrong password surfaces at open
		// time rather than on first object access
		_, err = enc.sec.GetKey(false)
		if err != nil {
			return nil, err
		}
		r.enc = enc
	}

	if _, ok := trailer["Root"]; !ok {
		return nil, &MalformedFileError{Err: errors.New("missing /Root")}
	}

	return r, nil
}

// readHeaderVersion parses the "%PDF-1.x" header.  Leading garbage
// before the header is tolerated, matching common damaged files.
func (r *Reader) readHeaderVersion() (string, error) {
	idx := bytes.Index(r.buf[:min64(r.size, 1024)], []byte("%PDF-"))
	if idx < 0 {
		return "", &MalformedFileError{Err: errors.New("PDF header not found")}
	}
	start := idx + len("%PDF-")
	end := start
	for end < len(r.buf) && end < start+8 {
		b := r.buf[end]
		if (b < '0' || b > '9') && b != '.' {
			break
		}
		end++
	}
	version := string(r.buf[start:end])
	if len(version) < 3 || version[1] != '.' {
		return "", &MalformedFileError{Err: errVersion}
	}
	return version, nil
}

// readTrailer locates and parses the cross-reference data, falling
// back to a reconstruction scan on damage.
func (r *Reader) readTrailer() (Dict, error) {
	start, err := r.findXRef()
	if err == nil {
		trailer, err := r.readXRefChain(start)
		if err == nil {
			return trailer, nil
		}
	}

	// tail scan failed, or the declared offset did not parse
	r.Repaired = true
	return r.rebuildXRef()
}

// IsEncrypted reports whether the file uses encryption.
func (r *Reader) IsEncrypted() bool {
	return r.enc != nil
}

// UserPermissions returns the permission flags of an encrypted file.
// For unencrypted files all permissions are granted.
func (r *Reader) UserPermissions() Perm {
	if r.enc == nil {
		return PermAll
	}
	return r.enc.UserPermissions
}

// Catalog returns the document catalog dictionary.
func (r *Reader) Catalog() (Dict, error) {
	return GetDictTyped(r, r.Trailer["Root"], "Catalog")
}

// Info returns the document information dictionary, or nil if absent.
func (r *Reader) Info() (Dict, error) {
	return GetDict(r, r.Trailer["Info"])
}

// Get resolves a reference to the referenced object.  Free objects,
// object number 0, and objects inside damaged object streams all yield
// an [*ObjectNotFoundError].  Reference cycles resolve to the null
// object.
func (r *Reader) Get(ref Reference) (Object, error) {
	number := ref.Number()
	if number == 0 {
		return nil, &ObjectNotFoundError{Ref: ref}
	}

	r.mu.Lock()
	if obj, ok := r.cache.Get(ref); ok {
		r.mu.Unlock()
		return obj, nil
	}
	if r.inProgress[number] {
		// a reference cycle during resolution terminates with null
		r.mu.Unlock()
		return nil, nil
	}
	r.inProgress[number] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.inProgress, number)
		r.mu.Unlock()
	}()

	entry, ok := r.xref[number]
	if !ok || entry.IsFree() || entry.Generation != ref.Generation() {
		return nil, &ObjectNotFoundError{Ref: ref}
	}

	var obj Object
	var err error
	if entry.InStream != 0 {
		obj, err = r.getFromObjectStream(ref, entry)
	} else {
		obj, err = r.parseObjectAt(entry.Pos, ref)
		if err == nil && r.enc != nil {
			obj, err = r.decryptObject(ref, obj)
		}
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache.Put(ref, obj)
	r.mu.Unlock()
	return obj, nil
}

const cacheSize = 1000

// parseObjectAt parses the indirect object "n g obj ... endobj" at the
// given byte offset.  The object header must match ref.
func (r *Reader) parseObjectAt(pos int64, ref Reference) (Object, error) {
	if pos < 0 || pos >= r.size {
		return nil, &ObjectNotFoundError{Ref: ref}
	}
	stm, gotRef, err := r.readStreamAt(pos)
	if err != nil {
		return nil, err
	}
	if gotRef.Number() != ref.Number() {
		return nil, &ObjectNotFoundError{Ref: ref}
	}
	if stm.Raw == nil && stm.Dict == nil {
		return stm.other, nil
	}
	if stm.Raw == nil && !stm.isStream {
		return stm.Dict, nil
	}
	return &Stream{Dict: stm.Dict, Raw: stm.Raw}, nil
}

// parsedObject is the result of parsing one indirect object.  For
// streams, Dict and Raw are set; for dictionaries only Dict; for all
// other object types, other.
type parsedObject struct {
	Dict     Dict
	Raw      []byte
	isStream bool
	other    Object
}

// readStreamAt parses the indirect object at pos.  Stream payloads are
// located using the /Length entry; if /Length is indirect and cannot be
// resolved yet, the payload is found by scanning for "endstream".
func (r *Reader) readStreamAt(pos int64) (*parsedObject, Reference, error) {
	if pos < 0 || pos >= r.size {
		return nil, 0, &MalformedFileError{
			Err: errors.New("object offset out of bounds"),
			Pos: pos,
		}
	}
	s := NewScanner(bytes.NewReader(r.buf[pos:]))

	numObj, err := s.Next()
	if err != nil {
		return nil, 0, &MalformedFileError{Err: err, Pos: pos}
	}
	genObj, err := s.Next()
	if err != nil {
		return nil, 0, &MalformedFileError{Err: err, Pos: pos}
	}
	kw, err := s.Next()
	if err != nil {
		return nil, 0, &MalformedFileError{Err: err, Pos: pos}
	}
	num, ok1 := numObj.(Integer)
	gen, ok2 := genObj.(Integer)
	if !ok1 || !ok2 || kw != Operator("obj") ||
		num <= 0 || gen < 0 || gen > 0xFFFF {
		return nil, 0, &MalformedFileError{
			Err: errors.New("indirect object header not found"),
			Pos: pos,
		}
	}
	ref := NewReference(uint32(num), uint16(gen))

	obj, err := s.ReadObject()
	if err != nil {
		return nil, 0, &MalformedFileError{Err: err, Pos: pos}
	}

	res := &parsedObject{}
	switch x := obj.(type) {
	case Dict:
		res.Dict = x
	default:
		res.other = x
		return res, ref, nil
	}

	next, err := s.Next()
	if err == io.EOF || next == Operator("endobj") {
		return res, ref, nil
	} else if err != nil {
		return nil, 0, &MalformedFileError{Err: err, Pos: pos}
	}
	if next != Operator("stream") {
		// garbage after the object body is tolerated
		return res, ref, nil
	}
	res.isStream = true

	// The keyword "stream" is followed by CRLF or LF.
	dataStart := pos + s.Pos()
	if dataStart < r.size && r.buf[dataStart] == '\r' {
		dataStart++
	}
	if dataStart < r.size && r.buf[dataStart] == '\n' {
		dataStart++
	}

	length := int64(-1)
	switch l := res.Dict["Length"].(type) {
	case Integer:
		length = int64(l)
	case Reference:
		if lObj, err := r.Get(l); err == nil {
			if li, ok := lObj.(Integer); ok {
				length = int64(li)
			}
		}
	}
	if length < 0 || dataStart+length > r.size {
		// fall back to scanning for the "endstream" keyword
		idx := bytes.Index(r.buf[dataStart:], []byte("endstream"))
		if idx < 0 {
			return nil, 0, &MalformedFileError{
				Err: io.ErrUnexpectedEOF,
				Pos: pos,
			}
		}
		length = int64(idx)
		for length > 0 && (r.buf[dataStart+length-1] == '\n' ||
			r.buf[dataStart+length-1] == '\r') {
			length--
		}
	}

	res.Raw = r.buf[dataStart : dataStart+length]
	return res, ref, nil
}

// getFromObjectStream extracts an object from a compressed object
// stream.  All structural damage is reported as ObjectNotFoundError;
// this path must never panic on malformed input.
func (r *Reader) getFromObjectStream(ref Reference, entry *xrefEntry) (Object, error) {
	container, err := r.Get(entry.InStream)
	if err != nil {
		return nil, &ObjectNotFoundError{Ref: ref}
	}
	stm, ok := container.(*Stream)
	if !ok {
		return nil, &ObjectNotFoundError{Ref: ref}
	}
	if tp, _ := stm.Dict["Type"].(Name); tp != "ObjStm" {
		return nil, &ObjectNotFoundError{Ref: ref}
	}

	data, err := DecodeStream(r, stm, 0)
	if err != nil {
		return nil, &ObjectNotFoundError{Ref: ref}
	}

	n, err := GetInt(r, stm.Dict["N"])
	if err != nil || n < 0 {
		return nil, &ObjectNotFoundError{Ref: ref}
	}
	first, err := GetInt(r, stm.Dict["First"])
	if err != nil || first < 0 || int64(first) > int64(len(data)) {
		return nil, &ObjectNotFoundError{Ref: ref}
	}

	// The stream starts with N pairs of "objectNumber offset".
	s := NewScanner(bytes.NewReader(data))
	offset := int64(-1)
	for i := Integer(0); i < n; i++ {
		numObj, err := s.Next()
		if err != nil {
			return nil, &ObjectNotFoundError{Ref: ref}
		}
		offObj, err := s.Next()
		if err != nil {
			return nil, &ObjectNotFoundError{Ref: ref}
		}
		num, ok1 := numObj.(Integer)
		off, ok2 := offObj.(Integer)
		if !ok1 || !ok2 {
			return nil, &ObjectNotFoundError{Ref: ref}
		}
		if int(i) == entry.Idx {
			if uint32(num) != ref.Number() {
				return nil, &ObjectNotFoundError{Ref: ref}
			}
			offset = int64(first) + int64(off)
		}
	}
	if offset < 0 || offset > int64(len(data)) {
		return nil, &ObjectNotFoundError{Ref: ref}
	}

	sObj := NewScanner(bytes.NewReader(data[offset:]))
	obj, err := sObj.ReadObject()
	if err != nil {
		return nil, &ObjectNotFoundError{Ref: ref}
	}
	// Strings inside object streams are covered by the decryption of
	// the containing stream and are not decrypted again.
	return obj, nil
}

// decryptObject decrypts all strings in obj, and the payload of stream
// objects, using the object-scoped key for ref.
func (r *Reader) decryptObject(ref Reference, obj Object) (Object, error) {
	switch x := obj.(type) {
	case String:
		buf := make([]byte, len(x))
		copy(buf, x)
		plain, err := r.enc.DecryptBytes(ref, buf)
		if err != nil {
			return nil, err
		}
		return String(plain), nil
	case Array:
		res := make(Array, len(x))
		for i, elem := range x {
			dec, err := r.decryptObject(ref, elem)
			if err != nil {
				return nil, err
			}
			res[i] = dec
		}
		return res, nil
	case Dict:
		res := make(Dict, len(x))
		for key, elem := range x {
			dec, err := r.decryptObject(ref, elem)
			if err != nil {
				return nil, err
			}
			res[key] = dec
		}
		return res, nil
	case *Stream:
		dict, err := r.decryptObject(ref, x.Dict)
		if err != nil {
			return nil, err
		}
		if r.skipStreamDecryption(x.Dict) {
			return &Stream{Dict: dict.(Dict), Raw: x.Raw}, nil
		}
		buf := make([]byte, len(x.Raw))
		copy(buf, x.Raw)
		plain, err := r.enc.DecryptStreamBytes(ref, buf)
		if err != nil {
			return nil, err
		}
		return &Stream{Dict: dict.(Dict), Raw: plain}, nil
	default:
		return obj, nil
	}
}

// skipStreamDecryption reports whether a stream is left unencrypted by
// the security handler: cross-reference streams are always plain, and
// metadata streams are plain when EncryptMetadata is false.
func (r *Reader) skipStreamDecryption(dict Dict) bool {
	tp, _ := dict["Type"].(Name)
	if tp == "XRef" {
		return true
	}
	if tp == "Metadata" && r.enc.sec.unencryptedMetaData {
		return true
	}
	return false
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
