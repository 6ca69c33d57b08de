// Package inspect prints the video registers field by field.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/user-none/gbatile/video"
)

// Dumper writes register dumps.
type Dumper struct {
	w      io.Writer
	styles Styles

	// Load refreshes each shadow from hardware before printing it.
	// Registers skips it for write-only registers, whose hardware reads are
	// meaningless.
	Load bool
}

// NewDumper creates a dumper writing to w.
func NewDumper(w io.Writer, styles Styles) *Dumper {
	return &Dumper{w: w, styles: styles}
}

// Registers prints every register.
func (d *Dumper) Registers(regs []video.NamedRegister) error {
	for _, r := range regs {
		if err := d.register(r.Name, r.View, d.Load && !r.WriteOnly); err != nil {
			return err
		}
	}
	return nil
}

// Register prints one register: a header line with address, access width
// and raw value, then one name=value pair per field.
func (d *Dumper) Register(name string, rv *video.RegisterView) error {
	return d.register(name, rv, d.Load)
}

func (d *Dumper) register(name string, rv *video.RegisterView, load bool) error {
	if load {
		rv.Load()
	}
	s := d.styles

	var b strings.Builder
	b.WriteString(s.register.Render(fmt.Sprintf("%-8s", name)))
	b.WriteString(" ")
	b.WriteString(s.address.Render(fmt.Sprintf("%08X", rv.Address())))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%-8s", rv.Granularity()))
	b.WriteString(" ")
	b.WriteString(s.value.Render(rawHex(rv.Bytes())))
	b.WriteString("\n ")

	for _, f := range rv.Layout().Fields() {
		v, err := rv.Get(f.Name)
		if err != nil {
			b.WriteString(" ")
			b.WriteString(s.err.Render(err.Error()))
			continue
		}
		val := s.value
		if v == 0 {
			val = s.zero
		}
		b.WriteString(" ")
		b.WriteString(s.field.Render(f.Name))
		b.WriteString("=")
		b.WriteString(val.Render(fieldValue(v, f.Width)))
	}
	b.WriteString("\n")

	_, err := io.WriteString(d.w, b.String())
	return err
}

// rawHex formats a little-endian shadow buffer as one hex number per
// 16-bit unit, lowest address first.
func rawHex(buf []byte) string {
	parts := make([]string, 0, len(buf)/2)
	for i := 0; i+1 < len(buf); i += 2 {
		parts = append(parts, fmt.Sprintf("%04X", uint16(buf[i])|uint16(buf[i+1])<<8))
	}
	return strings.Join(parts, " ")
}

// fieldValue prints single bits as 0/1 and wider fields in decimal with hex.
func fieldValue(v uint32, width uint) string {
	if width == 1 || v < 10 {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%d(0x%X)", v, v)
}
