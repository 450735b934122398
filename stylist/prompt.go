package stylist

import (
	"fmt"

	"github.com/raushankrgupta/vogue-styler/models"
)

// ComposePrompt renders a selection into the transformation instruction.
// Pure and deterministic: the same selection always yields the same string.
// Empty slots instruct the model to keep what the photo already shows, and
// the instruction always directs that the subject's identity be preserved.
func ComposePrompt(sel models.CurrentSelection) string {
	desc := func(opt *models.StyleOption) string {
		if opt == nil {
			return "keep"
		}
		return opt.Description
	}

	styleDesc := "maintain natural vibe"
	if sel.Style != "" {
		styleDesc = fmt.Sprintf("overall vibe is %s", sel.Style)
	}

	return fmt.Sprintf(
		"Style update: Hairstyle=%s, Top=%s, Bottom=%s. Additionally, the %s. Maintain the person's identity.",
		desc(sel.Hairstyle), desc(sel.Top), desc(sel.Bottom), styleDesc)
}
