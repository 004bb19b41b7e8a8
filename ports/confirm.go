package ports

// Confirmer asks for a yes/no decision before a destructive operation. The
// terminal prompt is one implementation; tests inject scripted answers.
type Confirmer func(prompt string) (bool, error)
