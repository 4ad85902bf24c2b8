package structure

// ClientView returns the document as the client sees it: hidden fields are
// dropped, hidden options are dropped from both the options and the current
// selection, and sections left without visible fields are omitted.
func ClientView(s Structure) Structure {
	var out Structure
	for _, sec := range s.Sections {
		visible := Section{ID: sec.ID, Title: sec.Title}
		for _, f := range sec.Fields {
			if f.Hidden {
				continue
			}
			c := f.clone()
			if len(c.HiddenOptions) > 0 {
				c.Options = without(c.Options, c.HiddenOptions...)
				if c.Value != nil && c.Value.kind == valueSelection {
					v := SelectionValue(without(c.Value.selected, c.HiddenOptions...)...)
					c.Value = &v
				}
			}
			c.HiddenOptions = nil
			visible.Fields = append(visible.Fields, c)
		}
		if len(visible.Fields) > 0 {
			out.Sections = append(out.Sections, visible)
		}
	}
	return out
}
