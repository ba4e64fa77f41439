package document

// UserData is optional free-form text and an optional RGBA colour
// attached to a layer, cel, tag, slice or tileset.
type UserData struct {
	Text     string
	HasText  bool
	Color    Rgba32
	HasColor bool
}

// SetText sets the text and marks HasText.
func (u *UserData) SetText(text string) {
	u.Text = text
	u.HasText = true
}

// ClearText clears the text and HasText.
func (u *UserData) ClearText() {
	u.Text = ""
	u.HasText = false
}

// SetColor sets the colour and marks HasColor.
func (u *UserData) SetColor(c Rgba32) {
	u.Color = c
	u.HasColor = true
}

// ClearColor clears the colour and HasColor.
func (u *UserData) ClearColor() {
	u.Color = Rgba32{}
	u.HasColor = false
}

// IsEmpty reports whether neither text nor colour is set.
func (u UserData) IsEmpty() bool {
	return !u.HasText && !u.HasColor
}
