package ports

// ArtifactWriter persists task artifacts under a task output directory.
// Names are relative to dir and may contain subdirectories; they must not escape dir.
//
//go:generate mockgen -source=artifacts.go -destination=mocks/mock_artifacts.go -package=mocks
type ArtifactWriter interface {
	// WriteCSV writes a header row followed by rows.
	WriteCSV(dir, name string, header []string, rows [][]string) error

	// WriteJSON writes v as indented JSON.
	WriteJSON(dir, name string, v any) error

	// WriteText writes plain text.
	WriteText(dir, name, text string) error
}
