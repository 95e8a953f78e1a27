package wall

// Prompter collects a line of text from the user.
type Prompter interface {
	// Prompt asks for a value. The boolean is false when the user cancelled.
	Prompt(title, label, initial string) (string, bool)
	// Notify shows a message the user has to acknowledge.
	Notify(title, message string)
}

// Choice is the answer to a remove confirmation.
type Choice int

const (
	ChoiceCancel Choice = iota
	ChoiceArchive
	ChoiceDelete
)

// String returns the button label of the choice.
func (c Choice) String() string {
	switch c {
	case ChoiceArchive:
		return "Archive"
	case ChoiceDelete:
		return "Delete"
	default:
		return "Cancel"
	}
}

// Confirmer asks the user how to get rid of a file.
type Confirmer interface {
	// ConfirmRemove offers Archive only when allowArchive is set.
	ConfirmRemove(title, message string, allowArchive bool) Choice
}

const (
	titleNewFolder = "Code Wall: New Folder"
	titleNewScript = "Code Wall: New Script"
	titleInvalid   = "Code Wall: Invalid"
	titleDelete    = "Code Wall: Delete"
)
