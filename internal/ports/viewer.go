package ports

// FileViewer opens files in the desktop's default application
type FileViewer interface {
	// Open shows the file at path, typically a rendered PNG
	Open(path string) error
}
