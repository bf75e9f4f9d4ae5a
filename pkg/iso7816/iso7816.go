/*
Package iso7816 models the parts of ISO/IEC 7816-4 that an APDU command table
talks about: the four header bytes (CLA, INS, P1, P2), the short/extended
command encoding, and the SW1-SW2 status trailer.

The generator never sends anything to a card. It uses this package to
describe the commands it reads (what a CLA or INS byte means), to preview the
C-APDU a generated wrapper would build, and to name the status word a
generated wrapper would return for a captured response.

	cls, _ := iso7816.NewClass(0x80)
	ins, _ := iso7816.NewInstruction(0x04)
	cmd := iso7816.NewCommandAPDU(cls, ins, 0x00, 0x49, data, iso7816.MaxShortLe)

	raw, err := cmd.Bytes()
	if err != nil {
	    return err
	}
	fmt.Printf("%s -> %X\n", cmd, raw)

	sw := iso7816.NewStatusWord(0x90, 0x00)
	fmt.Println(sw.Verbose()) // [9000] No error
*/
package iso7816
