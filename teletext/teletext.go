// Package teletext implements the World System Teletext line encoder:
// Hamming 8/4 + parity protected bytes, clock-run-in/framing-code
// insertion, a page cache keyed by page number, and an EP1 `.tti` file
// reader, the same directory-of-pages input format hacktv's teletext
// module reads.
package teletext

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// hamming84Table maps a 4-bit data nibble to its 8-bit Hamming 8/4 +
// overall-parity codeword, the ETS 300 706 / ITU-R BT.653 table every
// teletext control byte (magazine/row address, page-cycle flags) is
// protected with. Transmitted low nibble first: for page 100 row 0
// (magazine 1, row 0) the address pair is hamming84Table[1],
// hamming84Table[0] = 0x02, 0x15, the canonical test vector every
// reimplementation gets checked against.
var hamming84Table = [16]byte{
	0x15, 0x02, 0x49, 0x5e, 0x64, 0x73, 0x38, 0x2f,
	0xd0, 0xc7, 0x8c, 0x9b, 0xa1, 0xb6, 0xfd, 0xea,
}

// Hamming84Encode returns the protected byte for a data nibble (low 4 bits
// of v used, high bits ignored).
func Hamming84Encode(v byte) byte {
	return hamming84Table[v&0x0F]
}

// parityByte adds odd parity in bit 7, the simpler single-parity protection
// used for teletext's displayable text bytes (not the control-byte Hamming
// code).
func parityByte(v byte) byte {
	v &= 0x7F
	ones := 0
	for i := 0; i < 7; i++ {
		if v&(1<<uint(i)) != 0 {
			ones++
		}
	}
	if ones%2 == 0 {
		v |= 0x80
	}
	return v
}

// Clock-run-in and framing code, the fixed 2-byte preamble every teletext
// line transmits before its Hamming-coded magazine/row address.
const (
	clockRunIn = 0x55
	framingCode = 0x27
)

// PageLine is one of the 24 rows (25 in the VBI sense, row 0 = header) of
// Level-1 teletext content for a page.
type PageLine [40]byte

// Page is one teletext page: a hex page number (100-8FF), optional subpage,
// and its 24 content rows.
type Page struct {
	Number  int // e.g. 0x100
	Subpage int
	Rows    [24]PageLine
	charset *charmap.Charmap
}

// Store is the teletext page cache with a rolling header clock and
// insertion cursor.
type Store struct {
	pages       []*Page
	cursor      int
	headerClock int // advances once per Next call; no header display reads it
}

// NewStore creates an empty page store.
func NewStore() *Store {
	return &Store{}
}

// AddPage inserts a page at the end of the rotation.
func (s *Store) AddPage(p *Page) {
	s.pages = append(s.pages, p)
}

// Next returns the next page in rotation and advances the insertion cursor
// and header clock, used by the composer on every teletext line it draws.
func (s *Store) Next() *Page {
	if len(s.pages) == 0 {
		return nil
	}
	p := s.pages[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.pages)
	s.headerClock++
	return p
}

// EncodeRow builds the 45-byte VBI packet for one page row: clock-run-in,
// framing code, magazine/row address (Hamming-protected), and 40 parity-
// protected content bytes.
func EncodeRow(magazine, row int, content PageLine) []byte {
	packet := make([]byte, 0, 45)
	packet = append(packet, clockRunIn, clockRunIn, framingCode)

	addr := byte(row)<<3 | byte(magazine&0x7)
	packet = append(packet, Hamming84Encode(addr&0x0F), Hamming84Encode((addr>>4)&0x0F))

	for _, c := range content {
		packet = append(packet, parityByte(c))
	}
	return packet
}

// ParseEP1 reads an EP1-format .tti file: lines prefixed PN (page number),
// SP (subpage), CY (reserved/cycle), OL (one content row, "OL,<row>,<text>").
func ParseEP1(r io.Reader) (*Page, error) {
	p := &Page{charset: charmap.ISO8859_1}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		tag, rest, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		switch tag {
		case "PN":
			n, err := strconv.ParseInt(strings.TrimSpace(rest), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("teletext: invalid PN line %q: %w", line, err)
			}
			p.Number = int(n)
		case "SP":
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err == nil {
				p.Subpage = n
			}
		case "OL":
			rowStr, text, ok := strings.Cut(rest, ",")
			if !ok {
				continue
			}
			row, err := strconv.Atoi(strings.TrimSpace(rowStr))
			if err != nil || row < 0 || row >= len(p.Rows) {
				continue
			}
			p.setRow(row, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("teletext: reading .tti: %w", err)
	}
	return p, nil
}

// setRow writes text into row, encoded through the page's charset (ISO
// 8859-1; no national G0 option sub-set remapping), padding/truncating to 40
// columns.
func (p *Page) setRow(row int, text string) {
	encoded, err := p.charset.NewEncoder().String(text)
	if err != nil {
		encoded = text
	}
	var line PageLine
	for i := range line {
		line[i] = ' '
	}
	copy(line[:], encoded)
	p.Rows[row] = line
}

// LoadDirectory reads every *.tti file in dir into a new Store.
func LoadDirectory(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("teletext: reading directory %s: %w", dir, err)
	}
	s := NewStore()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".tti") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("teletext: opening %s: %w", e.Name(), err)
		}
		page, err := ParseEP1(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		s.AddPage(page)
	}
	return s, nil
}
