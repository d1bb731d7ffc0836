package tracker

// savedMsg reports the outcome of an asynchronous save.
// Edits counts the changes included in the saved profile.
type savedMsg struct {
	Edits int
	Err   error
}

// Prompt IDs for the dialogs this screen opens.
const (
	promptName   = "name"
	promptImport = "import"
)
