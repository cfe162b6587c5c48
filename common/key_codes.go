package common

// Key codes delivered to window key callbacks. They match GLFW, which uses ASCII values for
// printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32
	KeyF     = 70
	KeyP     = 80
	KeyZ     = 90
	KeyEsc   = 256
)
