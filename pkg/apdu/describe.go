package apdu

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gregLibert/apdugen/pkg/iso7816"
	"github.com/gregLibert/apdugen/pkg/tlv"
)

// Describe writes a human readable dump of cmds to w.
//
// Each command shows its header bytes decoded against ISO 7816-4, its
// parameters in index order, and a preview of the request APDU when every
// payload tag resolves to a byte. Scalars are previewed as zeroes of their
// width; buffers and objects as empty values.
func Describe(w io.Writer, cmds []Command, tags Tags) error {
	r := lipgloss.NewRenderer(w)
	nameStyle := r.NewStyle().Bold(true)
	labelStyle := r.NewStyle().Faint(true)

	for i, cmd := range cmds {
		var sb strings.Builder
		if i > 0 {
			sb.WriteString("\n")
		}

		fmt.Fprintf(&sb, "%s : %s @%s\n", nameStyle.Render(cmd.Name), cmd.Description, cmd.AppletVersion)
		fmt.Fprintf(&sb, "  CLA=0x%02X INS=0x%02X P1=0x%02X P2=0x%02X LeCase=%s\n",
			cmd.CLA, cmd.INS, cmd.P1, cmd.P2, leCaseString(cmd.LeCase))
		fmt.Fprintf(&sb, "  %s\n", describeHeader(cmd))

		for _, p := range cmd.Payload {
			fmt.Fprintf(&sb, "  %s %s %q %s %s\n", labelStyle.Render(fmt.Sprintf("CMD[%d]", p.Index)), p.Tag, p.Description, p.Name, p.Type)
		}
		for _, p := range cmd.Response {
			fmt.Fprintf(&sb, "  %s %s %q %s %s\n", labelStyle.Render(fmt.Sprintf("RSP[%d]", p.Index)), p.Tag, p.Description, p.Name, p.Type)
		}

		preview, err := Preview(cmd, tags)
		if err != nil {
			fmt.Fprintf(&sb, "  %s %v\n", labelStyle.Render("request"), err)
		} else {
			fmt.Fprintf(&sb, "  %s %X\n", labelStyle.Render("request"), preview)
		}

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func describeHeader(cmd Command) string {
	cls, err := iso7816.NewClass(cmd.CLA)
	if err != nil {
		return err.Error()
	}
	ins, err := iso7816.NewInstruction(iso7816.InsCode(cmd.INS))
	if err != nil {
		return cls.Describe() + ", " + err.Error()
	}
	return cls.Describe() + ", " + ins.Describe(cls)
}

func leCaseString(le int) string {
	if le == LeCaseUnset {
		return "-"
	}
	return fmt.Sprint(le)
}

// Preview encodes the request APDU cmd would send with placeholder values.
func Preview(cmd Command, tags Tags) ([]byte, error) {
	fields := make([]tlv.Field, 0, len(cmd.Payload))
	for _, p := range cmd.Payload {
		tag, ok := tags.Resolve(p.Tag)
		if !ok {
			return nil, fmt.Errorf("unresolved tag %s", p.Tag)
		}
		fields = append(fields, tlv.Field{Tag: tag, Value: make([]byte, p.Type.Descriptor().Width)})
	}

	data, err := tlv.Encode(fields)
	if err != nil {
		return nil, err
	}

	cls, err := iso7816.NewClass(cmd.CLA)
	if err != nil {
		return nil, err
	}
	ins, err := iso7816.NewInstruction(iso7816.InsCode(cmd.INS))
	if err != nil {
		return nil, err
	}

	ne := 0
	if cmd.LeCase == 4 {
		ne = iso7816.MaxShortLe
	}
	return iso7816.NewCommandAPDU(cls, ins, cmd.P1, cmd.P2, data, ne).Bytes()
}
