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
	"crypto/md5"
	"crypto/rc4"
	"errors"
	"fmt"
	"testing"
)

// pdfBuilder assembles a small PDF file in memory.
type pdfBuilder struct {
	buf     bytes.Buffer
	offsets map[int]int
	maxNum  int
}

func newPDFBuilder() *pdfBuilder {
	b := &pdfBuilder{offsets: make(map[int]int)}
	b.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	return b
}

func (b *pdfBuilder) add(num int, body string) {
	b.offsets[num] = b.buf.Len()
	if num > b.maxNum {
		b.maxNum = num
	}
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (b *pdfBuilder) addStream(num int, dict string, data []byte) {
	b.offsets[num] = b.buf.Len()
	if num > b.maxNum {
		b.maxNum = num
	}
	fmt.Fprintf(&b.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", num, dict, len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
}

func (b *pdfBuilder) finish(trailerExtra string) []byte {
	xrefPos := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", b.maxNum+1)
	fmt.Fprintf(&b.buf, "0000000000 65535 f \n")
	for num := 1; num <= b.maxNum; num++ {
		off, ok := b.offsets[num]
		if ok {
			fmt.Fprintf(&b.buf, "%010d 00000 n \n", off)
		} else {
			fmt.Fprintf(&b.buf, "0000000000 65535 f \n")
		}
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root 1 0 R %s >>\n", b.maxNum+1, trailerExtra)
	fmt.Fprintf(&b.buf, "startxref\n%d\n%%%%EOF\n", xrefPos)
	return b.buf.Bytes()
}

// helloPDF builds a single-page document showing "Hello".
func helloPDF() []byte {
	b := newPDFBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, `<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]
/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>`)
	content := "BT /F1 12 Tf 100 700 Td (Hello) Tj ET"
	b.addStream(4, "", []byte(content))
	b.add(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	return b.finish("")
}

func TestOpenAndResolve(t *testing.T) {
	r, err := Open(helloPDF(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != "1.7" {
		t.Errorf("wrong version %q", r.Version)
	}
	if r.Repaired {
		t.Error("document should not need repair")
	}
	if r.IsEncrypted() {
		t.Error("document is not encrypted")
	}

	catalog, err := r.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if tp := catalog["Type"]; tp != Name("Catalog") {
		t.Errorf("wrong catalog type %v", tp)
	}

	obj, err := r.Get(NewReference(4, 0))
	if err != nil {
		t.Fatal(err)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("expected stream, got %T", obj)
	}
	if !bytes.Contains(stm.Raw, []byte("(Hello) Tj")) {
		t.Errorf("unexpected stream contents %q", stm.Raw)
	}
}

func TestGetObjectErrors(t *testing.T) {
	r, err := Open(helloPDF(), nil)
	if err != nil {
		t.Fatal(err)
	}

	var notFound *ObjectNotFoundError

	// object number 0 is always invalid
	_, err = r.Get(NewReference(0, 0))
	if !errors.As(err, &notFound) {
		t.Errorf("expected ObjectNotFoundError, got %v", err)
	}

	// unknown object numbers
	_, err = r.Get(NewReference(99, 0))
	if !errors.As(err, &notFound) {
		t.Errorf("expected ObjectNotFoundError, got %v", err)
	}
}

func TestPages(t *testing.T) {
	r, err := Open(helloPDF(), nil)
	if err != nil {
		t.Fatal(err)
	}
	var pages []*Page
	for page, err := range r.Pages() {
		if err != nil {
			t.Fatal(err)
		}
		pages = append(pages, page)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	p := pages[0]
	if p.MediaBox.URx != 612 || p.MediaBox.URy != 792 {
		t.Errorf("wrong media box %v", p.MediaBox)
	}
	if p.Resources == nil {
		t.Error("missing inherited resources")
	}
	content, err := p.Contents()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(content, []byte("Hello")) {
		t.Errorf("unexpected content %q", content)
	}
}

// TestMediaBoxRepair checks that a MediaBox with swapped corners is
// normalized.
func TestMediaBoxRepair(t *testing.T) {
	b := newPDFBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 792 612 0] >>")
	r, err := Open(b.finish(""), nil)
	if err != nil {
		t.Fatal(err)
	}
	for page, err := range r.Pages() {
		if err != nil {
			t.Fatal(err)
		}
		if page.MediaBox.LLy > page.MediaBox.URy {
			t.Errorf("media box not repaired: %v", page.MediaBox)
		}
		if page.MediaBox.URy != 792 {
			t.Errorf("wrong media box %v", page.MediaBox)
		}
	}
}

// TestDamageRecovery removes the startxref marker, forcing the
// reconstruction scan.
func TestDamageRecovery(t *testing.T) {
	data := helloPDF()
	data = bytes.ReplaceAll(data, []byte("startxref"), []byte("xxxxxxxxx"))

	r, err := Open(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Repaired {
		t.Error("expected the repaired flag to be set")
	}

	count := 0
	for _, err := range r.Pages() {
		if err != nil {
			t.Fatal(err)
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected 1 page, got %d", count)
	}
}

// TestObjectStream reads objects stored inside an object stream, via a
// cross-reference stream.
func TestObjectStream(t *testing.T) {
	data := objectStreamPDF(5) // the header "11 0 " is five bytes
	r, err := Open(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	obj, err := r.Get(NewReference(11, 0))
	if err != nil {
		t.Fatal(err)
	}
	if obj != Integer(1234) {
		t.Errorf("got %v", obj)
	}
}

// TestDamagedObjectStream sets /First beyond the stream data.  The
// lookup must fail with ObjectNotFound and must not panic.
func TestDamagedObjectStream(t *testing.T) {
	data := objectStreamPDF(999)
	r, err := Open(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Get(NewReference(11, 0))
	var notFound *ObjectNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ObjectNotFoundError, got %v", err)
	}
	if notFound.Ref.Number() != 11 {
		t.Errorf("wrong object number in error: %v", notFound.Ref)
	}
}

// objectStreamPDF builds a document whose object 11 lives in an object
// stream, addressed through a cross-reference stream.
func objectStreamPDF(first int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n")

	offsets := make(map[int]int)

	addStream := func(num int, dict string, data []byte) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", num, dict, len(data))
		buf.Write(data)
		buf.WriteString("\nendstream\nendobj\n")
	}
	add := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	add(2, "<< /Type /Pages /Kids [] /Count 0 >>")

	// object 10 is the container; the payload holds object 11
	payload := []byte("11 0 1234")
	addStream(10, fmt.Sprintf("/Type /ObjStm /N 1 /First %d", first), payload)

	// object 12 is the cross-reference stream
	xrefPos := buf.Len()
	var rows []byte
	row := func(tp, f2, f3 int) {
		rows = append(rows, byte(tp),
			byte(f2>>24), byte(f2>>16), byte(f2>>8), byte(f2),
			byte(f3))
	}
	row(0, 0, 0)              // object 0: free
	row(1, offsets[1], 0)     // object 1
	row(1, offsets[2], 0)     // object 2
	row(1, offsets[10], 0)    // object 10
	row(2, 10, 0)             // object 11, in stream 10 at index 0
	row(1, xrefPos, 0)        // object 12, the xref stream itself
	fmt.Fprintf(&buf, "12 0 obj\n<< /Type /XRef /Size 13 /W [1 4 1] "+
		"/Index [0 3 10 3] /Root 1 0 R /Length %d >>\nstream\n", len(rows))
	buf.Write(rows)
	buf.WriteString("\nendstream\nendobj\n")

	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes()
}

// TestPageLabels checks the /PageLabels number tree.
func TestPageLabels(t *testing.T) {
	b := newPDFBuilder()
	kids := "[3 0 R 4 0 R 5 0 R 6 0 R 7 0 R]"
	b.add(1, `<< /Type /Catalog /Pages 2 0 R /PageLabels
<< /Nums [0 << /S /r >> 2 << /S /D >> 4 << /S /D /St 1 >>] >> >>`)
	b.add(2, fmt.Sprintf("<< /Type /Pages /Kids %s /Count 5 >>", kids))
	for i := 3; i <= 7; i++ {
		b.add(i, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 100 100] >>")
	}
	r, err := Open(b.finish(""), nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"i", "ii", "1", "2", "1"}
	for i, w := range want {
		got, err := r.PageLabel(i)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("page %d: got %q, want %q", i, got, w)
		}
	}
}

func TestNoPageLabels(t *testing.T) {
	r, err := Open(helloPDF(), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.PageLabel(0)
	if !errors.Is(err, ErrNoPageLabels) {
		t.Errorf("expected ErrNoPageLabels, got %v", err)
	}
}

// == encryption =========================================================

// encryptedHelloPDF builds an RC4-encrypted document (standard
// security handler, V1/R2) with user password pwd.
func encryptedHelloPDF(pwd string) []byte {
	id := []byte("0123456789abcdef")
	perm := uint32(0xFFFFFFFC)

	padded, _ := padPasswd(pwd)

	// O value: the user password encrypted with a key derived from
	// the owner password (here equal to the user password)
	h := md5.New()
	h.Write(padded)
	oKey := h.Sum(nil)[:5]
	O := make([]byte, 32)
	c, _ := rc4.NewCipher(oKey)
	c.XORKeyStream(O, padded)

	// file encryption key
	h = md5.New()
	h.Write(padded)
	h.Write(O)
	h.Write([]byte{byte(perm), byte(perm >> 8), byte(perm >> 16), byte(perm >> 24)})
	h.Write(id)
	key := h.Sum(nil)[:5]

	// U value
	U := make([]byte, 32)
	c, _ = rc4.NewCipher(key)
	c.XORKeyStream(U, passwdPad)

	objKey := func(num, gen int) []byte {
		h := md5.New()
		h.Write(key)
		h.Write([]byte{byte(num), byte(num >> 8), byte(num >> 16),
			byte(gen), byte(gen >> 8)})
		l := len(key) + 5
		if l > 16 {
			l = 16
		}
		return h.Sum(nil)[:l]
	}
	encrypt := func(num int, data []byte) []byte {
		out := make([]byte, len(data))
		c, _ := rc4.NewCipher(objKey(num, 0))
		c.XORKeyStream(out, data)
		return out
	}

	b := newPDFBuilder()
	b.add(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.add(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.add(3, `<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]
/Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>`)
	content := []byte("BT /F1 12 Tf 100 700 Td (Hello) Tj ET")
	b.addStream(4, "", encrypt(4, content))
	b.add(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	b.add(6, fmt.Sprintf(
		"<< /Filter /Standard /V 1 /R 2 /O %s /U %s /P %d >>",
		Format(String(O)), Format(String(U)), int32(perm)))

	extra := fmt.Sprintf("/Encrypt 6 0 R /ID [%s %s]",
		Format(String(id)), Format(String(id)))
	return b.finish(extra)
}

func TestEncryptedRC4(t *testing.T) {
	data := encryptedHelloPDF("foo")
	r, err := Open(data, &ReaderOptions{Password: "foo"})
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsEncrypted() {
		t.Error("document should report as encrypted")
	}

	obj, err := r.Get(NewReference(4, 0))
	if err != nil {
		t.Fatal(err)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("expected stream, got %T", obj)
	}
	if !bytes.Contains(stm.Raw, []byte("(Hello) Tj")) {
		t.Errorf("stream not decrypted: %q", stm.Raw)
	}
}

func TestWrongPassword(t *testing.T) {
	data := encryptedHelloPDF("foo")
	_, err := Open(data, &ReaderOptions{Password: "wrong"})
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
}

// TestRC4Inverse checks that RC4 encryption and decryption are
// inverses.
func TestRC4Inverse(t *testing.T) {
	key := []byte{1, 2, 3, 4, 5}
	plain := []byte("sixteen byte txt")

	buf := make([]byte, len(plain))
	c, _ := rc4.NewCipher(key)
	c.XORKeyStream(buf, plain)

	c, _ = rc4.NewCipher(key)
	c.XORKeyStream(buf, buf)
	if !bytes.Equal(buf, plain) {
		t.Errorf("got %q", buf)
	}
}
