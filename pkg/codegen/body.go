package codegen

import (
	"fmt"
	"strings"

	"github.com/gregLibert/apdugen/pkg/apdu"
)

// Transmit primitives of the target runtime.
const (
	txCase3 = "DoAPDUTxRx_Case3"
	txCase4 = "DoAPDUTxRx_Case4"
	txOnly  = "DoAPDUTx"
)

// TransmitPrimitive picks the runtime call that sends cmd.
// Commands without response parameters are fire-and-forget. Otherwise
// LeCase 4 selects the four-step exchange and anything else, unset
// included, the three-step one.
func TransmitPrimitive(cmd apdu.Command) string {
	if !cmd.HasResponse() {
		return txOnly
	}
	if cmd.LeCase == 4 {
		return txCase4
	}
	return txCase3
}

// body accumulates indented C statements.
type body struct {
	sb      strings.Builder
	indent  int
	cleanup bool
}

func (b *body) line(format string, args ...any) {
	b.sb.WriteString(strings.Repeat("    ", b.indent))
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

// directive writes a preprocessor line at column 0.
func (b *body) directive(format string, args ...any) {
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

func (b *body) blank() {
	b.sb.WriteByte('\n')
}

// bail writes the fail-fast check that follows every TLV call.
func (b *body) bail() {
	b.line("if (0 != tlvRet) {")
	b.indent++
	b.line("goto cleanup;")
	b.indent--
	b.line("}")
	b.cleanup = true
}

// Body renders the statements between the braces of the definition.
//
// The request TLVs are encoded in payload order and the first failing encode
// jumps to cleanup. After a successful exchange the response TLVs are decoded
// in response order, again stopping at the first failure. If exactly two
// bytes are left unread they are the status trailer and become the return
// value; any other remainder leaves the not-ok status in place.
func (e *Emitter) Body(cmd apdu.Command) string {
	b := &body{indent: 1}
	notOK := e.opts.StatusNotOK

	b.line("%s retStatus = %s;", e.opts.StatusType, notOK)
	b.line("const tlvHeader_t hdr = {{0x%02X, 0x%02X, 0x%02X, 0x%02X}};", cmd.CLA, cmd.INS, cmd.P1, cmd.P2)
	b.line("uint8_t cmdbuf[SE05X_MAX_BUF_SIZE_CMD];")
	b.line("uint8_t *pCmdbuf = &cmdbuf[0];")
	b.line("size_t cmdbufLen = 0;")
	b.line("int tlvRet = 0;")
	if cmd.HasResponse() {
		b.line("uint8_t rspbuf[SE05X_MAX_BUF_SIZE_RSP];")
		b.line("uint8_t *pRspbuf = &rspbuf[0];")
		b.line("size_t rspbufLen = ARRAY_SIZE(rspbuf);")
	}

	if e.opts.TraceMacro != "" {
		b.directive("#if %s", e.opts.TraceMacro)
		b.line(`printf("\r\n");`)
		b.line(`nLog("APDU", NX_LEVEL_DEBUG, "%s [%s]");`, cFormat(cmd.Name), cFormat(cmd.Description))
		b.directive("#endif /* %s */", e.opts.TraceMacro)
	}

	for _, p := range cmd.Payload {
		codec := p.Type.Descriptor().Codec
		if p.Type.IsBuffer() {
			b.line(`tlvRet = TLVSET_%s("%s", &pCmdbuf, &cmdbufLen, %s, %s, %sLen);`,
				codec, cString(p.Description), p.Tag, p.Name, p.Name)
		} else {
			b.line(`tlvRet = TLVSET_%s("%s", &pCmdbuf, &cmdbufLen, %s, %s);`,
				codec, cString(p.Description), p.Tag, p.Name)
		}
		b.bail()
	}

	tx := TransmitPrimitive(cmd)
	if !cmd.HasResponse() {
		b.line("retStatus = %s(&hdr, cmdbuf, cmdbufLen);", tx)
	} else {
		b.line("retStatus = %s(&hdr, cmdbuf, cmdbufLen, rspbuf, &rspbufLen);", tx)
		b.line("if (retStatus == %s) {", e.opts.StatusOK)
		b.indent++
		b.line("retStatus = %s;", notOK)
		b.line("size_t rspIndex = 0;")
		for _, p := range cmd.Response {
			codec := p.Type.Descriptor().Codec
			if p.Type.IsBuffer() {
				b.line("tlvRet = tlvGet_%s(&pRspbuf, &rspIndex, rspbufLen, %s, %s, p%sLen); /* %s */",
					codec, p.Tag, p.Name, p.Name, cComment(p.Description))
			} else {
				b.line("tlvRet = tlvGet_%s(&pRspbuf, &rspIndex, rspbufLen, %s, p%s); /* %s */",
					codec, p.Tag, p.Name, cComment(p.Description))
			}
			b.bail()
		}
		b.line("if ((rspIndex + 2) == rspbufLen) {")
		b.indent++
		b.line("retStatus = (pRspbuf[rspIndex] << 8) | (pRspbuf[rspIndex + 1]);")
		b.indent--
		b.line("}")
		b.indent--
		b.line("}")
	}

	if b.cleanup {
		b.blank()
		b.directive("cleanup:")
	}
	b.line("return retStatus;")
	return b.sb.String()
}
