package dispatch

// Operation names one bridge method. The string values are the wire names.
type Operation string

const (
	OpGetPlatformVersion  Operation = "getPlatformVersion"
	OpSelectDirectory     Operation = "selectDirectory"
	OpHasPermission       Operation = "hasPermission"
	OpRequestPermission   Operation = "requestPermission"
	OpWriteFile           Operation = "writeFile"
	OpListDirectory       Operation = "listDirectory"
	OpReadFile            Operation = "readFile"
	OpGetDirectoryDetails Operation = "getDirectoryDetails"
)

// Operations lists every operation in wire-contract order.
var Operations = []Operation{
	OpGetPlatformVersion,
	OpSelectDirectory,
	OpHasPermission,
	OpRequestPermission,
	OpWriteFile,
	OpListDirectory,
	OpReadFile,
	OpGetDirectoryDetails,
}

// ParseOperation looks name up in the fixed operation set. Matching is
// case-sensitive.
func ParseOperation(name string) (Operation, bool) {
	for _, op := range Operations {
		if string(op) == name {
			return op, true
		}
	}
	return "", false
}

// Mutates reports whether op changes the filesystem.
func (op Operation) Mutates() bool {
	return op == OpWriteFile
}

// Interactive reports whether op shows UI.
func (op Operation) Interactive() bool {
	return op == OpSelectDirectory
}
