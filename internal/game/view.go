package game

// AnonymousName is shown when no user is logged in.
const AnonymousName = "Anonymous User"

// MaskLetter replaces unrevealed letters in a View.
const MaskLetter = "_"

// View is the read-only model handed to templates and the JSON API.
// Unrevealed slots never carry their letter; Word is only set once the
// round is over.
type View struct {
	UserName         string   `json:"userName"`
	Category         string   `json:"category"`
	Slots            []Slot   `json:"slots"`
	LettersGuessed   []string `json:"lettersGuessed"`
	RemainingGuesses int      `json:"remainingGuesses"`
	Status           Status   `json:"status"`
	History          History  `json:"history"`
	LastError        string   `json:"lastError,omitempty"`
	Word             string   `json:"word,omitempty"`
}

// View builds the render model for s.
func (s *Session) View(userName string) View {
	if userName == "" {
		userName = AnonymousName
	}
	v := View{
		UserName:         userName,
		Category:         s.Category,
		Slots:            make([]Slot, len(s.Slots)),
		LettersGuessed:   append([]string{}, s.LettersGuessed...),
		RemainingGuesses: s.RemainingGuesses,
		Status:           s.Status,
		History:          s.History,
		LastError:        s.LastError,
	}
	for i, sl := range s.Slots {
		if sl.Revealed {
			v.Slots[i] = sl
		} else {
			v.Slots[i] = Slot{Letter: MaskLetter}
		}
	}
	if s.Status.Terminal() {
		v.Word = s.Word
	}
	return v
}

// Template helpers.
func (v View) InProgress() bool { return v.Status == StatusInProgress }
func (v View) Won() bool        { return v.Status == StatusWon }
func (v View) Lost() bool       { return v.Status == StatusLost }
