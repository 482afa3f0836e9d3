package ports

import "context"

// Dialogs are the modal prompts the host shows on the surface's behalf.
// ok is false when the user cancelled.
type Dialogs interface {
	// ChooseSaveFile asks for a file to save to, starting from defaultPath
	ChooseSaveFile(ctx context.Context, title, defaultPath string) (path string, ok bool, err error)

	// ChooseOpenFile asks for an existing file, starting from defaultPath
	ChooseOpenFile(ctx context.Context, title, defaultPath string) (path string, ok bool, err error)

	// Confirm asks a yes/no question
	Confirm(ctx context.Context, question string) (bool, error)
}
