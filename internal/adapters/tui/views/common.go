package views

// ViewState is the feedback line shared by the overlays.
type ViewState struct {
	Message    string
	MessageErr bool
}

func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

func (s *ViewState) ClearMessage() {
	s.SetMessage("", false)
}
