package pagetags

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	dumpKindColor = color.New(color.FgCyan, color.Bold)
	dumpTextColor = color.New(color.FgWhite)
	dumpNoteColor = color.New(color.FgYellow)
)

// Dump writes one line per element: its type, its plain markup or text, and the
// resolved control or component.
func Dump(w io.Writer, els []Element, colored bool) error {
	kind, text, note := *dumpKindColor, *dumpTextColor, *dumpNoteColor
	if colored {
		kind.EnableColor()
		text.EnableColor()
		note.EnableColor()
	} else {
		kind.DisableColor()
		text.DisableColor()
		note.DisableColor()
	}
	for i, el := range els {
		r := RecordOf(el)
		label, body, extra := r.Type, "", ""
		switch v := el.(type) {
		case *PlainText:
			label, body = r.Kind, fmt.Sprintf("%q", v.Text())
		case TagElement:
			body = v.PlainMarkup()
		}
		switch {
		case r.Control != "":
			extra = fmt.Sprintf(" %s id=%s", r.Control, r.Identity)
		case r.Component != "":
			extra = fmt.Sprintf(" %s alias=%s type=%s", r.Component, r.Alias, r.TypeName)
			if r.Identity != "" {
				extra += " id=" + r.Identity
			}
		}
		if _, err := fmt.Fprintf(w, "%3d %s %s%s\n", i, kind.Sprintf("%-13s", label), text.Sprint(body), note.Sprint(extra)); err != nil {
			return err
		}
	}
	return nil
}
